package overtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/lock"
)

type OvertimeServiceImpl struct {
	overtime.OvertimeRepository
	attendanceRepo attendance.AttendanceRepository
	locks          *lock.KeyedMutex
	now            func() time.Time
}

func NewOvertimeService(
	overtimeRepo overtime.OvertimeRepository,
	attendanceRepo attendance.AttendanceRepository,
	locks *lock.KeyedMutex,
) *OvertimeServiceImpl {
	return &OvertimeServiceImpl{
		OvertimeRepository: overtimeRepo,
		attendanceRepo:     attendanceRepo,
		locks:              locks,
		now:                time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (o *OvertimeServiceImpl) WithClock(now func() time.Time) *OvertimeServiceImpl {
	o.now = now
	return o
}

func entryKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// CalculateAuto implements overtime.OvertimeService. The caller (the
// attendance state machine's checkout path) already holds the per-key lock,
// so no lock is taken here.
func (o *OvertimeServiceImpl) CalculateAuto(ctx context.Context, emp employee.Employee, st tenant.Settings, attendanceID string, checkOut time.Time) (overtime.AutoResult, error) {
	if !st.OvertimeEnabled {
		return overtime.AutoResult{}, nil
	}

	workEnd, err := st.WorkEndAt(checkOut)
	if err != nil {
		return overtime.AutoResult{}, fmt.Errorf("invalid tenant work end: %w", err)
	}

	rawMinutes := int(math.Floor(checkOut.Sub(workEnd).Minutes()))
	if rawMinutes < st.OvertimeMinMinutes {
		return overtime.AutoResult{}, nil
	}

	finalMinutes := rawMinutes
	if maxMinutes := st.OvertimeMaxHours * 60; maxMinutes > 0 && finalMinutes > maxMinutes {
		finalMinutes = maxMinutes
	}

	date := attendance.DateOf(checkOut)
	endTime := checkOut
	entry := overtime.Entry{
		TenantID:        emp.TenantID,
		EmployeeID:      emp.ID,
		AttendanceID:    &attendanceID,
		Date:            date,
		Type:            overtime.TypeAuto,
		StartTime:       workEnd,
		EndTime:         &endTime,
		DurationMinutes: finalMinutes,
		Status:          overtime.StatusCompleted,
		Reason:          "Lembur otomatis",
	}

	if _, err := o.OvertimeRepository.Upsert(ctx, entry); err != nil {
		return overtime.AutoResult{}, fmt.Errorf("failed to upsert auto overtime entry: %w", err)
	}

	total, err := o.syncAggregate(ctx, emp, date, attendanceID)
	if err != nil {
		return overtime.AutoResult{}, err
	}

	return overtime.AutoResult{Counted: true, Minutes: finalMinutes, TotalMinutes: total}, nil
}

// RequestManual implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) RequestManual(ctx context.Context, emp employee.Employee, st tenant.Settings, reason string) (overtime.ManualRequestResult, error) {
	now := o.now()
	date := attendance.DateOf(now)

	key := entryKey(emp.ID, date)
	o.locks.Lock(key)
	defer o.locks.Unlock(key)

	rec, err := o.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return overtime.ManualRequestResult{}, overtime.ErrCheckInRequired
		}
		return overtime.ManualRequestResult{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if rec.CheckIn == nil {
		return overtime.ManualRequestResult{}, overtime.ErrCheckInRequired
	}

	if reason == "" {
		reason = "Lembur manual"
	}

	existing, err := o.OvertimeRepository.GetByEmployeeDateType(ctx, emp.ID, date, overtime.TypeManual)
	if err != nil && !errors.Is(err, overtime.ErrEntryNotFound) {
		return overtime.ManualRequestResult{}, fmt.Errorf("failed to load manual overtime entry: %w", err)
	}
	if existing != nil && existing.Status == overtime.StatusCompleted {
		return overtime.ManualRequestResult{}, overtime.ErrDuplicateRequest
	}

	startTime, err := st.WorkEndAt(now)
	if err != nil {
		return overtime.ManualRequestResult{}, fmt.Errorf("invalid tenant work end: %w", err)
	}

	entry := overtime.Entry{
		TenantID:     emp.TenantID,
		EmployeeID:   emp.ID,
		AttendanceID: &rec.ID,
		Date:         date,
		Type:         overtime.TypeManual,
		StartTime:    startTime,
		Status:       overtime.StatusPending,
		Reason:       reason,
	}
	if existing != nil {
		// Pengajuan ulang sebelum selesai: hanya alasan yang diperbarui.
		entry = *existing
		entry.Reason = reason
	}

	if _, err := o.OvertimeRepository.Upsert(ctx, entry); err != nil {
		return overtime.ManualRequestResult{}, fmt.Errorf("failed to upsert manual overtime entry: %w", err)
	}

	return overtime.ManualRequestResult{StartTime: entry.StartTime, Reason: reason}, nil
}

// FinishManual implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) FinishManual(ctx context.Context, emp employee.Employee, st tenant.Settings) (overtime.FinishResult, error) {
	now := o.now()
	date := attendance.DateOf(now)

	key := entryKey(emp.ID, date)
	o.locks.Lock(key)
	defer o.locks.Unlock(key)

	entry, err := o.OvertimeRepository.GetByEmployeeDateType(ctx, emp.ID, date, overtime.TypeManual)
	if err != nil {
		if errors.Is(err, overtime.ErrEntryNotFound) {
			return overtime.FinishResult{}, overtime.ErrNoActiveOvertime
		}
		return overtime.FinishResult{}, fmt.Errorf("failed to load manual overtime entry: %w", err)
	}
	if entry.EndTime != nil {
		return overtime.FinishResult{}, overtime.ErrNoActiveOvertime
	}

	minutes := int(math.Floor(now.Sub(entry.StartTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	if maxMinutes := st.OvertimeMaxHours * 60; maxMinutes > 0 && minutes > maxMinutes {
		minutes = maxMinutes
	}

	entry.EndTime = &now
	entry.DurationMinutes = minutes
	entry.Status = overtime.StatusCompleted

	if _, err := o.OvertimeRepository.Upsert(ctx, *entry); err != nil {
		return overtime.FinishResult{}, fmt.Errorf("failed to close manual overtime entry: %w", err)
	}

	attendanceID := ""
	if entry.AttendanceID != nil {
		attendanceID = *entry.AttendanceID
	}
	total, err := o.syncAggregate(ctx, emp, date, attendanceID)
	if err != nil {
		return overtime.FinishResult{}, err
	}

	return overtime.FinishResult{EndTime: now, Minutes: minutes, TotalMinutes: total}, nil
}

// MonthlySummary implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) MonthlySummary(ctx context.Context, emp employee.Employee, month time.Month, year int) (overtime.MonthlySummary, error) {
	entries, err := o.OvertimeRepository.ListByEmployeeMonth(ctx, emp.ID, month, year)
	if err != nil {
		return overtime.MonthlySummary{}, fmt.Errorf("failed to list overtime entries: %w", err)
	}

	summary := overtime.MonthlySummary{Month: month, Year: year}
	for _, e := range entries {
		switch e.Type {
		case overtime.TypeAuto:
			summary.AutoCount++
			summary.AutoMinutes += e.DurationMinutes
		case overtime.TypeManual:
			summary.ManualCount++
			summary.ManualMinutes += e.DurationMinutes
		}
		if e.Status == overtime.StatusPending {
			summary.PendingCount++
		}
	}
	summary.TotalMinutes = summary.AutoMinutes + summary.ManualMinutes

	return summary, nil
}

// syncAggregate recomputes the attendance record's overtime aggregate as the
// sum of the day's entries, so replays replace rather than add.
func (o *OvertimeServiceImpl) syncAggregate(ctx context.Context, emp employee.Employee, date time.Time, attendanceID string) (int, error) {
	total, err := o.OvertimeRepository.SumDurationMinutes(ctx, emp.ID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to sum overtime minutes: %w", err)
	}

	if attendanceID == "" {
		rec, err := o.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
		if err != nil {
			return 0, fmt.Errorf("failed to load attendance record for aggregate: %w", err)
		}
		attendanceID = rec.ID
	}

	if err := o.attendanceRepo.SetOvertimeMinutes(ctx, attendanceID, total); err != nil {
		return 0, fmt.Errorf("failed to store overtime aggregate: %w", err)
	}

	return total, nil
}

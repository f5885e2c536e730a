package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
)

// AttendanceJobs holds the scheduled attendance housekeeping tasks.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (j *AttendanceJobs) WithClock(now func() time.Time) *AttendanceJobs {
	j.now = now
	return j
}

// MarkAbsentees inserts an ALPHA record for every active employee who has no
// attendance record for the previous working day. No chat command produces
// ALPHA; this job is its only source. Weekend days are skipped.
func (j *AttendanceJobs) MarkAbsentees(ctx context.Context) error {
	yesterday := attendance.DateOf(j.now().AddDate(0, 0, -1))
	if wd := yesterday.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil
	}

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		_, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday, emp.TenantID)
		if err == nil {
			continue
		}
		if !errors.Is(err, attendance.ErrRecordNotFound) {
			slog.Error("failed to load attendance while marking absentees", "employee_id", emp.ID, "error", err)
			continue
		}

		rec := attendance.Record{
			TenantID:   emp.TenantID,
			EmployeeID: emp.ID,
			Date:       yesterday,
			Status:     attendance.StatusAlpha,
		}
		if _, err := j.attendanceRepo.Upsert(ctx, rec); err != nil {
			slog.Error("failed to mark absentee", "employee_id", emp.ID, "error", err)
			continue
		}
		marked++
	}

	if marked > 0 {
		slog.Info("absentees marked", "date", yesterday.Format("2006-01-02"), "count", marked)
	}

	return nil
}

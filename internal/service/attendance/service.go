package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geocode"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/lock"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/selfie"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	overtimeService overtime.OvertimeService
	geocoder        geocode.ReverseGeocoder
	selfies         selfie.Processor
	locks           *lock.KeyedMutex
	collabTimeout   time.Duration
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	overtimeService overtime.OvertimeService,
	geocoder geocode.ReverseGeocoder,
	selfies selfie.Processor,
	locks *lock.KeyedMutex,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		overtimeService:      overtimeService,
		geocoder:             geocoder,
		selfies:              selfies,
		locks:                locks,
		collabTimeout:        20 * time.Second,
		now:                  time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (attendance.CheckInResult, error) {
	if st.RequireSelfie && image == "" {
		return attendance.CheckInResult{}, attendance.ErrSelfieRequired
	}

	// Waktu server, jangan percaya jam klien.
	now := a.now()
	date := attendance.DateOf(now)

	key := recordKey(emp.ID, date)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
	if err != nil && !errors.Is(err, attendance.ErrRecordNotFound) {
		return attendance.CheckInResult{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.CheckInResult{}, &attendance.DuplicateCheckInError{At: *existing.CheckIn}
	}

	var selfieURL *string
	if image != "" {
		url, err := a.processSelfie(ctx, image, emp, selfie.KindCheckIn)
		if err != nil {
			slog.Warn("selfie processing failed, continuing check-in", "employee_id", emp.ID, "error", err)
		} else {
			selfieURL = &url
		}
	}

	var locationName *string
	var distanceMeters *int
	var withinRadius *bool
	if loc != nil {
		locationName = a.reverseGeocode(ctx, emp, *loc)

		if st.RadiusLockEnabled {
			check := geo.Check(*loc, st.Office(), st.AllowedRadiusMeters)
			if !check.Allowed {
				return attendance.CheckInResult{}, &attendance.OutOfRangeError{
					DistanceMeters:  check.DistanceMeters,
					MaxRadiusMeters: st.AllowedRadiusMeters,
				}
			}
			distanceMeters = &check.DistanceMeters
			withinRadius = &check.Allowed
		}
	} else if st.RequireLocation {
		return attendance.CheckInResult{}, attendance.ErrLocationRequired
	}

	status := attendance.StatusHadir
	workStart, err := st.WorkStartMinutes()
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("invalid tenant work start: %w", err)
	}
	if now.Hour()*60+now.Minute() > workStart+st.LateToleranceMinutes {
		status = attendance.StatusTerlambat
	}

	rec := attendance.Record{
		TenantID:              emp.TenantID,
		EmployeeID:            emp.ID,
		Date:                  date,
		Status:                status,
		CheckIn:               &now,
		CheckInSelfieURL:      selfieURL,
		CheckInLocationName:   locationName,
		CheckInDistanceMeters: distanceMeters,
		CheckInWithinRadius:   withinRadius,
	}
	if loc != nil {
		rec.CheckInLatitude = &loc.Latitude
		rec.CheckInLongitude = &loc.Longitude
	}
	if existing != nil {
		// Hari ini sudah ada record status-only (izin/sakit); upgrade in place.
		rec.ID = existing.ID
		rec.OvertimeMinutes = existing.OvertimeMinutes
	}

	if _, err := a.AttendanceRepository.Upsert(ctx, rec); err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return attendance.CheckInResult{
		Status:         status,
		Time:           now,
		LocationName:   locationName,
		DistanceMeters: distanceMeters,
		WithinRadius:   withinRadius,
		SelfieURL:      selfieURL,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (attendance.CheckOutResult, error) {
	now := a.now()
	date := attendance.DateOf(now)

	key := recordKey(emp.ID, date)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.CheckOutResult{}, attendance.ErrNotCheckedIn
		}
		return attendance.CheckOutResult{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if rec.CheckIn == nil {
		return attendance.CheckOutResult{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.CheckOutResult{}, &attendance.DuplicateCheckOutError{At: *rec.CheckOut}
	}

	if image != "" {
		url, err := a.processSelfie(ctx, image, emp, selfie.KindCheckOut)
		if err != nil {
			slog.Warn("selfie processing failed, continuing check-out", "employee_id", emp.ID, "error", err)
		} else {
			rec.CheckOutSelfieURL = &url
		}
	}

	if loc != nil {
		rec.CheckOutLatitude = &loc.Latitude
		rec.CheckOutLongitude = &loc.Longitude
		rec.CheckOutLocationName = a.reverseGeocode(ctx, emp, *loc)

		// Jarak dicatat saja; tidak ada gerbang radius saat pulang.
		if office := st.Office(); office != nil && st.AllowedRadiusMeters > 0 {
			check := geo.Check(*loc, office, st.AllowedRadiusMeters)
			rec.CheckOutDistanceMeters = &check.DistanceMeters
			rec.CheckOutWithinRadius = &check.Allowed
		}
	}

	rec.CheckOut = &now
	if err := a.AttendanceRepository.Update(ctx, *rec); err != nil {
		return attendance.CheckOutResult{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	result := attendance.CheckOutResult{
		Time:          now,
		WorkedMinutes: int(now.Sub(*rec.CheckIn).Minutes()),
	}

	if st.OvertimeEnabled {
		auto, err := a.overtimeService.CalculateAuto(ctx, emp, st, rec.ID, now)
		if err != nil {
			return attendance.CheckOutResult{}, fmt.Errorf("failed to calculate auto overtime: %w", err)
		}
		result.OvertimeCounted = auto.Counted
		result.OvertimeMinutes = auto.Minutes
		result.TotalOvertimeMinutes = auto.TotalMinutes
	}

	return result, nil
}

// MarkAbsence implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsence(ctx context.Context, emp employee.Employee, st tenant.Settings, status attendance.Status) (*attendance.Record, error) {
	if status != attendance.StatusIzin && status != attendance.StatusSakit {
		return nil, fmt.Errorf("status %q is not an absence status", status)
	}

	now := a.now()
	date := attendance.DateOf(now)

	key := recordKey(emp.ID, date)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
	if err != nil && !errors.Is(err, attendance.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		// Izin/sakit dan check-in saling eksklusif dalam satu hari.
		return nil, &attendance.DuplicateCheckInError{At: *existing.CheckIn}
	}

	rec := attendance.Record{
		TenantID:   emp.TenantID,
		EmployeeID: emp.ID,
		Date:       date,
		Status:     status,
	}
	if existing != nil {
		rec.ID = existing.ID
	}

	saved, err := a.AttendanceRepository.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert absence record: %w", err)
	}

	return &saved, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, emp employee.Employee) (*attendance.Record, error) {
	date := attendance.DateOf(a.now())
	return a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.TenantID)
}

func (a *AttendanceServiceImpl) processSelfie(ctx context.Context, image string, emp employee.Employee, kind selfie.Kind) (string, error) {
	if a.selfies == nil {
		return "", fmt.Errorf("selfie processor is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, a.collabTimeout)
	defer cancel()
	return a.selfies.Process(ctx, image, emp.ID, kind)
}

func (a *AttendanceServiceImpl) reverseGeocode(ctx context.Context, emp employee.Employee, loc geo.Point) *string {
	if a.geocoder == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.collabTimeout)
	defer cancel()

	place, err := a.geocoder.Reverse(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		slog.Warn("reverse geocode failed, continuing without location name", "employee_id", emp.ID, "error", err)
		return nil
	}
	return &place.DisplayName
}

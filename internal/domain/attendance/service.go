package attendance

import (
	"context"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"
)

// AttendanceService is the per-employee daily state machine. Guard failures
// surface as the errors in errors.go with no persisted mutation; selfie and
// reverse-geocode processing are best-effort and never fail an operation
// that passed its guards.
type AttendanceService interface {
	CheckIn(ctx context.Context, emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (CheckInResult, error)
	CheckOut(ctx context.Context, emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (CheckOutResult, error)

	// MarkAbsence records an IZIN or SAKIT day. Rejected with
	// ErrAlreadyCheckedIn when a check-in already exists for the day.
	MarkAbsence(ctx context.Context, emp employee.Employee, st tenant.Settings, status Status) (*Record, error)

	// Today returns the employee's record for the current working day, or
	// ErrRecordNotFound.
	Today(ctx context.Context, emp employee.Employee) (*Record, error)
}

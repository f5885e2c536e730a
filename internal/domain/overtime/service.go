package overtime

import (
	"context"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
)

// OvertimeService is the auto and manual overtime state machine.
type OvertimeService interface {
	// CalculateAuto derives overtime from a checkout time against the
	// tenant's configured work end. Idempotent: a replayed checkout updates
	// the existing auto entry in place. Called by the attendance state
	// machine while it holds the per-(employee, date) lock.
	CalculateAuto(ctx context.Context, emp employee.Employee, st tenant.Settings, attendanceID string, checkOut time.Time) (AutoResult, error)

	// RequestManual opens a pending manual overtime session anchored at the
	// tenant's work end. A resubmission before the session is finished
	// updates the reason only; a second request after it completed is
	// rejected with ErrDuplicateRequest.
	RequestManual(ctx context.Context, emp employee.Employee, st tenant.Settings, reason string) (ManualRequestResult, error)

	// FinishManual closes today's pending manual session, capping the
	// duration at the tenant's maximum.
	FinishManual(ctx context.Context, emp employee.Employee, st tenant.Settings) (FinishResult, error)

	// MonthlySummary aggregates the employee's entries for a month.
	MonthlySummary(ctx context.Context, emp employee.Employee, month time.Month, year int) (MonthlySummary, error)
}

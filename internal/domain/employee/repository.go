package employee

import "context"

// EmployeeRepository defines data access for employees. All lookups return
// active employees only; inactive employees cannot check in.
type EmployeeRepository interface {
	// GetByPhone finds the employee owning the normalized phone within one
	// tenant. Scoped lookups never widen to other tenants.
	GetByPhone(ctx context.Context, tenantID, normalizedPhone string) (*Employee, error)

	// FindByPhone finds an exact phone match across all tenants. Used only
	// when the inbound event carried no resolvable device line.
	FindByPhone(ctx context.Context, normalizedPhone string) (*Employee, error)

	// FindByPhoneSuffix matches the trailing digits of the phone across
	// tenants that opted in to legacy suffix matching. This is a
	// compatibility path for tenants migrated from systems that stored
	// phones without a country prefix; it is the only lookup where two
	// tenants could collide, which is why it is restricted to opted-in
	// tenants and skipped entirely when a device line resolved a tenant.
	FindByPhoneSuffix(ctx context.Context, suffix string) (*Employee, error)

	// ListActive returns all active employees, for scheduled jobs.
	ListActive(ctx context.Context) ([]Employee, error)
}

package tenant

import "context"

// SettingsRepository defines data access for tenant settings.
type SettingsRepository interface {
	// GetByDeviceLine looks up the tenant whose inbound line matches either
	// the normalized or the alternate-prefix form of the line identifier.
	GetByDeviceLine(ctx context.Context, line, altLine string) (*Settings, error)

	GetByID(ctx context.Context, tenantID string) (*Settings, error)
}

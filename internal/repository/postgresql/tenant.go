package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type tenantSettingsRepository struct {
	db *database.DB
}

func NewTenantSettingsRepository(db *database.DB) tenant.SettingsRepository {
	return &tenantSettingsRepository{db: db}
}

const tenantSettingsColumns = `
	tenant_id, name, device_line_id, work_start, work_end, late_tolerance_minutes,
	require_selfie, require_location, radius_lock_enabled,
	office_latitude, office_longitude, allowed_radius_meters,
	overtime_enabled, overtime_min_minutes, overtime_max_hours,
	legacy_phone_match, gateway_api_url, gateway_token,
	created_at, updated_at`

func scanTenantSettings(row pgx.Row) (*tenant.Settings, error) {
	var s tenant.Settings
	err := row.Scan(
		&s.TenantID, &s.Name, &s.DeviceLineID, &s.WorkStart, &s.WorkEnd, &s.LateToleranceMinutes,
		&s.RequireSelfie, &s.RequireLocation, &s.RadiusLockEnabled,
		&s.OfficeLatitude, &s.OfficeLongitude, &s.AllowedRadiusMeters,
		&s.OvertimeEnabled, &s.OvertimeMinMinutes, &s.OvertimeMaxHours,
		&s.LegacyPhoneMatch, &s.GatewayAPIURL, &s.GatewayToken,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByDeviceLine implements tenant.SettingsRepository.
func (r *tenantSettingsRepository) GetByDeviceLine(ctx context.Context, line, altLine string) (*tenant.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tenantSettingsColumns + `
		FROM tenant_settings
		WHERE device_line_id IN ($1, $2)
		LIMIT 1
	`

	s, err := scanTenantSettings(q.QueryRow(ctx, query, line, altLine))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by device line: %w", err)
	}
	return s, nil
}

// GetByID implements tenant.SettingsRepository.
func (r *tenantSettingsRepository) GetByID(ctx context.Context, tenantID string) (*tenant.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tenantSettingsColumns + `
		FROM tenant_settings
		WHERE tenant_id = $1
	`

	s, err := scanTenantSettings(q.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant settings: %w", err)
	}
	return s, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `
	id, tenant_id, employee_id, attendance_id, date, type,
	start_time, end_time, duration_minutes, status, reason,
	created_at, updated_at`

func scanEntry(row pgx.Row) (*overtime.Entry, error) {
	var e overtime.Entry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.AttendanceID, &e.Date, &e.Type,
		&e.StartTime, &e.EndTime, &e.DurationMinutes, &e.Status, &e.Reason,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByEmployeeDateType implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetByEmployeeDateType(ctx context.Context, employeeID string, date time.Time, typ overtime.Type) (*overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_entries
		WHERE employee_id = $1
		  AND date = $2
		  AND type = $3
	`

	e, err := scanEntry(q.QueryRow(ctx, query, employeeID, date, typ))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, overtime.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get overtime entry: %w", err)
	}
	return e, nil
}

// Upsert implements overtime.OvertimeRepository. The unique index on
// (employee_id, date, type) turns redelivered checkouts into in-place
// updates of the existing entry.
func (r *overtimeRepository) Upsert(ctx context.Context, e overtime.Entry) (overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_entries (
			tenant_id, employee_id, attendance_id, date, type,
			start_time, end_time, duration_minutes, status, reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (employee_id, date, type) DO UPDATE SET
			attendance_id = COALESCE(EXCLUDED.attendance_id, overtime_entries.attendance_id),
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			status = EXCLUDED.status,
			reason = EXCLUDED.reason,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.TenantID, e.EmployeeID, e.AttendanceID, e.Date, e.Type,
		e.StartTime, e.EndTime, e.DurationMinutes, e.Status, e.Reason,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		return overtime.Entry{}, fmt.Errorf("failed to upsert overtime entry: %w", err)
	}

	return e, nil
}

// SumDurationMinutes implements overtime.OvertimeRepository.
func (r *overtimeRepository) SumDurationMinutes(ctx context.Context, employeeID string, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var total int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM overtime_entries
		WHERE employee_id = $1
		  AND date = $2
	`, employeeID, date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum overtime minutes: %w", err)
	}

	return total, nil
}

// ListByEmployeeMonth implements overtime.OvertimeRepository.
func (r *overtimeRepository) ListByEmployeeMonth(ctx context.Context, employeeID string, month time.Month, year int) ([]overtime.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_entries
		WHERE employee_id = $1
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
		ORDER BY date, type
	`

	rows, err := q.Query(ctx, query, employeeID, int(month), year)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime entries: %w", err)
	}
	defer rows.Close()

	var entries []overtime.Entry
	for rows.Next() {
		var e overtime.Entry
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.EmployeeID, &e.AttendanceID, &e.Date, &e.Type,
			&e.StartTime, &e.EndTime, &e.DurationMinutes, &e.Status, &e.Reason,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime entries: %w", err)
	}

	return entries, nil
}

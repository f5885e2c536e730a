package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, tenant_id, employee_id, date, status, check_in, check_out,
	check_in_latitude, check_in_longitude, check_in_location_name,
	check_in_distance_meters, check_in_within_radius, check_in_selfie_url,
	check_out_latitude, check_out_longitude, check_out_location_name,
	check_out_distance_meters, check_out_within_radius, check_out_selfie_url,
	overtime_minutes, created_at, updated_at`

func scanRecord(row pgx.Row) (*attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.EmployeeID, &rec.Date, &rec.Status, &rec.CheckIn, &rec.CheckOut,
		&rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInLocationName,
		&rec.CheckInDistanceMeters, &rec.CheckInWithinRadius, &rec.CheckInSelfieURL,
		&rec.CheckOutLatitude, &rec.CheckOutLongitude, &rec.CheckOutLocationName,
		&rec.CheckOutDistanceMeters, &rec.CheckOutWithinRadius, &rec.CheckOutSelfieURL,
		&rec.OvertimeMinutes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		  AND tenant_id = $3
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// Upsert implements attendance.AttendanceRepository. The unique index on
// (employee_id, date) makes concurrent inserts for the same day settle to a
// single row: the loser of the race updates the winner's row in place.
func (r *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			tenant_id, employee_id, date, status, check_in, check_out,
			check_in_latitude, check_in_longitude, check_in_location_name,
			check_in_distance_meters, check_in_within_radius, check_in_selfie_url,
			check_out_latitude, check_out_longitude, check_out_location_name,
			check_out_distance_meters, check_out_within_radius, check_out_selfie_url,
			overtime_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = COALESCE(EXCLUDED.check_in, attendance_records.check_in),
			check_in_latitude = COALESCE(EXCLUDED.check_in_latitude, attendance_records.check_in_latitude),
			check_in_longitude = COALESCE(EXCLUDED.check_in_longitude, attendance_records.check_in_longitude),
			check_in_location_name = COALESCE(EXCLUDED.check_in_location_name, attendance_records.check_in_location_name),
			check_in_distance_meters = COALESCE(EXCLUDED.check_in_distance_meters, attendance_records.check_in_distance_meters),
			check_in_within_radius = COALESCE(EXCLUDED.check_in_within_radius, attendance_records.check_in_within_radius),
			check_in_selfie_url = COALESCE(EXCLUDED.check_in_selfie_url, attendance_records.check_in_selfie_url),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.TenantID, rec.EmployeeID, rec.Date, rec.Status, rec.CheckIn, rec.CheckOut,
		rec.CheckInLatitude, rec.CheckInLongitude, rec.CheckInLocationName,
		rec.CheckInDistanceMeters, rec.CheckInWithinRadius, rec.CheckInSelfieURL,
		rec.CheckOutLatitude, rec.CheckOutLongitude, rec.CheckOutLocationName,
		rec.CheckOutDistanceMeters, rec.CheckOutWithinRadius, rec.CheckOutSelfieURL,
		rec.OvertimeMinutes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			status = $2,
			check_in = $3,
			check_out = $4,
			check_in_latitude = $5, check_in_longitude = $6, check_in_location_name = $7,
			check_in_distance_meters = $8, check_in_within_radius = $9, check_in_selfie_url = $10,
			check_out_latitude = $11, check_out_longitude = $12, check_out_location_name = $13,
			check_out_distance_meters = $14, check_out_within_radius = $15, check_out_selfie_url = $16,
			overtime_minutes = $17,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID, rec.Status, rec.CheckIn, rec.CheckOut,
		rec.CheckInLatitude, rec.CheckInLongitude, rec.CheckInLocationName,
		rec.CheckInDistanceMeters, rec.CheckInWithinRadius, rec.CheckInSelfieURL,
		rec.CheckOutLatitude, rec.CheckOutLongitude, rec.CheckOutLocationName,
		rec.CheckOutDistanceMeters, rec.CheckOutWithinRadius, rec.CheckOutSelfieURL,
		rec.OvertimeMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// SetOvertimeMinutes implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetOvertimeMinutes(ctx context.Context, recordID string, minutes int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_records
		SET overtime_minutes = $2, updated_at = NOW()
		WHERE id = $1
	`, recordID, minutes)
	if err != nil {
		return fmt.Errorf("failed to set overtime minutes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

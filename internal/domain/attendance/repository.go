package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. All
// methods carry tenantID to keep tenants isolated at the query level.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns the record for one employee and working
	// day, or ErrRecordNotFound.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) (*Record, error)

	// Upsert inserts the record, or updates the existing row for the same
	// (employee, date) in place. The store enforces the one-record-per-day
	// uniqueness, so concurrent inserts settle to a single row.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// Update rewrites an existing record by ID.
	Update(ctx context.Context, rec Record) error

	// SetOvertimeMinutes replaces the record's overtime aggregate.
	SetOvertimeMinutes(ctx context.Context, recordID string, minutes int) error
}

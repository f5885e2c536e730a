package overtime

import (
	"context"
	"time"
)

// OvertimeRepository defines data access for overtime entries.
type OvertimeRepository interface {
	// GetByEmployeeDateType returns the entry for one (employee, date,
	// type), or ErrEntryNotFound.
	GetByEmployeeDateType(ctx context.Context, employeeID string, date time.Time, typ Type) (*Entry, error)

	// Upsert inserts the entry, or updates the existing row for the same
	// (employee, date, type) in place. Replayed webhook deliveries update
	// rather than duplicate.
	Upsert(ctx context.Context, e Entry) (Entry, error)

	// SumDurationMinutes returns the total duration of the employee's
	// entries for one working day, across types.
	SumDurationMinutes(ctx context.Context, employeeID string, date time.Time) (int, error)

	// ListByEmployeeMonth returns all entries for a calendar month.
	ListByEmployeeMonth(ctx context.Context, employeeID string, month time.Month, year int) ([]Entry, error)
}

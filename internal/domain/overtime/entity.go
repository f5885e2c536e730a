package overtime

import "time"

type Type string

const (
	TypeAuto   Type = "auto"
	TypeManual Type = "manual"
)

type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
)

// Entry is one overtime bucket for one employee and day. At most one entry
// exists per (employee, date, type); auto and manual entries may coexist on
// the same date and both contribute to the attendance record's aggregate.
type Entry struct {
	ID              string
	TenantID        string
	EmployeeID      string
	AttendanceID    *string // back-reference, non-owning
	Date            time.Time
	Type            Type
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Status          EntryStatus
	Reason          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

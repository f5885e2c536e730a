package attendance

import "time"

type Status string

const (
	StatusHadir     Status = "HADIR"
	StatusTerlambat Status = "TERLAMBAT"
	StatusIzin      Status = "IZIN"
	StatusSakit     Status = "SAKIT"
	StatusAlpha     Status = "ALPHA"
)

// Record is one employee's attendance for one working day. There is exactly
// one record per (employee, date); it is created on the first check-in or
// leave/sick mark of the day and mutated in place, never deleted.
type Record struct {
	ID         string
	TenantID   string
	EmployeeID string
	Date       time.Time // working day, midnight in server local time
	Status     Status
	CheckIn    *time.Time
	CheckOut   *time.Time

	CheckInLatitude        *float64
	CheckInLongitude       *float64
	CheckInLocationName    *string
	CheckInDistanceMeters  *int
	CheckInWithinRadius    *bool
	CheckInSelfieURL       *string
	CheckOutLatitude       *float64
	CheckOutLongitude      *float64
	CheckOutLocationName   *string
	CheckOutDistanceMeters *int
	CheckOutWithinRadius   *bool
	CheckOutSelfieURL      *string

	// Aggregate of the day's overtime entries, recomputed on every overtime
	// write so webhook replays cannot double-count.
	OvertimeMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOf truncates t to its working day in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package attendance

import "time"

// CheckInResult carries the data the reply is composed from after a
// successful check-in.
type CheckInResult struct {
	Status         Status
	Time           time.Time
	LocationName   *string
	DistanceMeters *int
	WithinRadius   *bool
	SelfieURL      *string
}

// CheckOutResult carries the data for a successful check-out reply.
type CheckOutResult struct {
	Time          time.Time
	WorkedMinutes int

	// OvertimeCounted is true when the auto overtime engine produced an
	// entry for this checkout; OvertimeMinutes is that entry's duration and
	// TotalOvertimeMinutes the day's aggregate across entry types.
	OvertimeCounted      bool
	OvertimeMinutes      int
	TotalOvertimeMinutes int
}

package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors. Guard failures return one of these with no
// persisted mutation.
var (
	ErrSelfieRequired       = errors.New("a selfie photo is required to check in")
	ErrLocationRequired     = errors.New("a location is required to check in")
	ErrAlreadyCheckedIn     = errors.New("already checked in today")
	ErrNotCheckedIn         = errors.New("not checked in today")
	ErrAlreadyCheckedOut    = errors.New("already checked out today")
	ErrOutsideAllowedRadius = errors.New("outside the allowed office radius")

	ErrRecordNotFound = errors.New("attendance record not found")
)

// DuplicateCheckInError reports the existing check-in time alongside the
// ErrAlreadyCheckedIn guard.
type DuplicateCheckInError struct {
	At time.Time
}

func (e *DuplicateCheckInError) Error() string {
	return fmt.Sprintf("already checked in today at %s", e.At.Format("15:04"))
}

func (e *DuplicateCheckInError) Is(target error) bool {
	return target == ErrAlreadyCheckedIn
}

// DuplicateCheckOutError reports the existing check-out time alongside the
// ErrAlreadyCheckedOut guard.
type DuplicateCheckOutError struct {
	At time.Time
}

func (e *DuplicateCheckOutError) Error() string {
	return fmt.Sprintf("already checked out today at %s", e.At.Format("15:04"))
}

func (e *DuplicateCheckOutError) Is(target error) bool {
	return target == ErrAlreadyCheckedOut
}

// OutOfRangeError reports the measured distance alongside the
// ErrOutsideAllowedRadius guard.
type OutOfRangeError struct {
	DistanceMeters  int
	MaxRadiusMeters int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("outside the allowed office radius: %dm away, max %dm", e.DistanceMeters, e.MaxRadiusMeters)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutsideAllowedRadius
}

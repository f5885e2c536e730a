package overtime

import "errors"

var (
	ErrCheckInRequired  = errors.New("check in before requesting overtime")
	ErrDuplicateRequest = errors.New("overtime already requested today")
	ErrNoActiveOvertime = errors.New("no active overtime session")

	ErrEntryNotFound = errors.New("overtime entry not found")
)

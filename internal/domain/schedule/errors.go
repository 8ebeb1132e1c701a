package schedule

import "errors"

// Sentinel kinds for window errors.
var (
	ErrInvalidHour     = errors.New("window hour out of range")
	ErrInvalidLocation = errors.New("unknown window time zone")
)

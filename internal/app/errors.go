package service

import "errors"

// Sentinel kinds for cycle failures.
var (
	ErrFetch       = errors.New("fetch stage failed")
	ErrExtract     = errors.New("extract stage failed")
	ErrNoFetcher   = errors.New("service has no fetcher")
	ErrBadInterval = errors.New("refresh interval must be positive")
)

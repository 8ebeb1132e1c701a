package repository

import "errors"

// Sentinel kinds for board store errors.
var (
	ErrNoBoard  = errors.New("no board published yet")
	ErrNotFound = errors.New("team not found")
)

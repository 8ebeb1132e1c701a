package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrRequest = errors.New("leaderboard request failed")
	ErrStatus  = errors.New("leaderboard returned non-2xx status")
	ErrBody    = errors.New("leaderboard body read failed")
)

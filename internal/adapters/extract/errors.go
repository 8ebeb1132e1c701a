package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrParse           = errors.New("leaderboard markup parse failed")
	ErrNoTeams         = errors.New("no team containers found")
	ErrMalformedTeam   = errors.New("malformed team container")
	ErrMalformedPlayer = errors.New("malformed player row")
)

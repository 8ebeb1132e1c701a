// Package scoring turns raw golf score tokens into integer ranking keys.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/poolwatch/internal/domain/model"
)

// Scoring constants.
const (
	// Even is the token for a score equal to par.
	Even = "E"
	// Sentinel ranks unparseable scores last and never reads as an improvement.
	Sentinel = math.MaxInt
	// sentinelText is how a sentinel score is printed.
	sentinelText = "--"
)

// Normalize maps a raw score token to its ranking key.
// "E" is 0, signed base-10 integers map to themselves and anything else is Sentinel.
func Normalize(raw string) int {
	token := strings.TrimSpace(raw)
	if token == Even {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return Sentinel
	}
	return n
}

// IsSentinel reports whether score is the unparseable marker.
func IsSentinel(score int) bool {
	return score == Sentinel
}

// Format renders a normalized score the way golf leaderboards print it.
func Format(score int) string {
	switch {
	case IsSentinel(score):
		return sentinelText
	case score == 0:
		return Even
	case score > 0:
		return "+" + strconv.Itoa(score)
	default:
		return strconv.Itoa(score)
	}
}

// Display formats score, keeping the raw token for unparseable entries such
// as "CUT" or "WD".
func Display(score int, raw string) string {
	if IsSentinel(score) && raw != "" {
		return raw
	}
	return Format(score)
}

// NormalizeTeams fills Score for every team and player from its Raw token, in place.
func NormalizeTeams(teams []model.Team) {
	for i := range teams {
		teams[i].Score = Normalize(teams[i].Raw)
		for j := range teams[i].Players {
			teams[i].Players[j].Score = Normalize(teams[i].Players[j].Raw)
		}
	}
}

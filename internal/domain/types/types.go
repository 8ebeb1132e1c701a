// Package types contains the JSON shapes served by the HTTP dashboard.
package types

import (
	"time"

	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/scoring"
)

// PlayerEntry is one golfer row.
type PlayerEntry struct {
	Name     string `json:"name"`
	Score    string `json:"score"`
	Value    *int   `json:"value,omitempty"` // nil when the token did not parse
	Movement string `json:"movement"`
}

// TeamEntry is one ranked team.
type TeamEntry struct {
	Rank    int           `json:"rank"`
	Name    string        `json:"name"`
	Score   string        `json:"score"`
	Value   *int          `json:"value,omitempty"`
	Players []PlayerEntry `json:"players"`
}

// Board is the leaderboard response body.
type Board struct {
	CycleID     string      `json:"cycle_id"`
	Active      bool        `json:"active"`
	Limit       int         `json:"limit"`
	UpdatedAt   time.Time   `json:"updated_at"`
	NewEntrants []string    `json:"new_entrants"`
	Teams       []TeamEntry `json:"teams"`
	LastError   string      `json:"last_error,omitempty"`
}

// NewTeamEntry converts a ranked team. Unparseable tokens are shown raw.
func NewTeamEntry(t model.Team) TeamEntry {
	e := TeamEntry{
		Rank:    t.Rank,
		Name:    t.Name,
		Score:   scoring.Display(t.Score, t.Raw),
		Value:   value(t.Score),
		Players: make([]PlayerEntry, 0, len(t.Players)),
	}
	for _, p := range t.Players {
		e.Players = append(e.Players, PlayerEntry{
			Name:     p.Name,
			Score:    scoring.Display(p.Score, p.Raw),
			Value:    value(p.Score),
			Movement: p.Movement.String(),
		})
	}
	return e
}

// NewTeamEntries converts a ranked snapshot in order.
func NewTeamEntries(teams []model.Team) []TeamEntry {
	out := make([]TeamEntry, 0, len(teams))
	for _, t := range teams {
		out = append(out, NewTeamEntry(t))
	}
	return out
}

func value(score int) *int {
	if scoring.IsSentinel(score) {
		return nil
	}
	return &score
}

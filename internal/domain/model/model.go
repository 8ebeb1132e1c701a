// Package model contains domain models passed between layers.
package model

import "time"

// Movement tags a player's score change since the previous cycle.
type Movement int

// Movement values. Lower golf scores are better, so MovementDown is an improvement.
const (
	MovementNone Movement = iota
	MovementUp
	MovementDown
)

// String returns the lower-case movement name.
func (m Movement) String() string {
	switch m {
	case MovementUp:
		return "up"
	case MovementDown:
		return "down"
	default:
		return "none"
	}
}

// Player is a single golfer row inside a team.
type Player struct {
	Name     string   // unique within a team
	Raw      string   // score token as scraped, e.g. "E", "-3", "+5"
	Score    int      // normalized ranking key
	Movement Movement // set by the diff engine each cycle
}

// Team is one pool entry with its aggregate score and players in scrape order.
type Team struct {
	Rank    int // 1-based, assigned by the ranker; 0 before ranking
	Name    string
	Raw     string
	Score   int
	Players []Player
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	c := t
	if t.Players != nil {
		c.Players = make([]Player, len(t.Players))
		copy(c.Players, t.Players)
	}
	return c
}

// Snapshot is the ranked top-N standings of one refresh cycle.
type Snapshot struct {
	Teams      []Team
	CapturedAt time.Time
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{CapturedAt: s.CapturedAt}
	if s.Teams != nil {
		c.Teams = make([]Team, len(s.Teams))
		for i, t := range s.Teams {
			c.Teams[i] = t.Clone()
		}
	}
	return c
}

// TeamNames returns the team names in rank order.
func (s Snapshot) TeamNames() []string {
	names := make([]string, len(s.Teams))
	for i, t := range s.Teams {
		names[i] = t.Name
	}
	return names
}

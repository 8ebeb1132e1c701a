// Package movement compares consecutive snapshots and tags score changes.
package movement

import (
	"maps"
	"sort"

	"github.com/okian/poolwatch/internal/domain/model"
)

// History is what the diff engine remembers between cycles.
// The zero value is an empty history, as at process start.
type History struct {
	// scores maps player name to last-seen normalized score.
	scores map[string]int
	// topTeams is the set of team names in the previous top-N snapshot.
	topTeams map[string]struct{}
}

// NewHistory returns an empty history.
func NewHistory() History {
	return History{
		scores:   make(map[string]int),
		topTeams: make(map[string]struct{}),
	}
}

// LastScore returns the last-seen score for a player name.
func (h History) LastScore(player string) (int, bool) {
	s, ok := h.scores[player]
	return s, ok
}

// WasTop reports whether team was in the previous top-N snapshot.
func (h History) WasTop(team string) bool {
	_, ok := h.topTeams[team]
	return ok
}

// Players returns the number of players the history remembers.
func (h History) Players() int { return len(h.scores) }

// TopTeams returns the previous top-N team names, sorted.
func (h History) TopTeams() []string {
	names := make([]string, 0, len(h.topTeams))
	for name := range h.topTeams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Counts tallies movement tags across a snapshot.
type Counts struct {
	Up   int
	Down int
	None int
}

// Result is the output of one diff.
type Result struct {
	// Snapshot is a copy of the input with player movement tags set.
	Snapshot model.Snapshot
	// NewEntrants are team names absent from the previous top-N, sorted.
	NewEntrants []string
	// History is the state to thread into the next cycle.
	History History
	// Counts summarizes the tags set on Snapshot.
	Counts Counts
}

// Diff tags every player in current against prev and computes new entrants.
// prev is not modified; the updated state is returned in Result.History.
// Players are matched by name only, so a player who changes team keeps their history.
func Diff(prev History, current model.Snapshot) Result {
	tagged := current.Clone()

	next := History{
		scores:   make(map[string]int, len(prev.scores)),
		topTeams: make(map[string]struct{}, len(tagged.Teams)),
	}
	maps.Copy(next.scores, prev.scores)

	var (
		entrants []string
		counts   Counts
	)
	for ti := range tagged.Teams {
		team := &tagged.Teams[ti]
		if !prev.WasTop(team.Name) {
			if _, dup := next.topTeams[team.Name]; !dup {
				entrants = append(entrants, team.Name)
			}
		}
		next.topTeams[team.Name] = struct{}{}

		for pi := range team.Players {
			p := &team.Players[pi]
			p.Movement = Tag(prev, p.Name, p.Score)
			switch p.Movement {
			case model.MovementUp:
				counts.Up++
			case model.MovementDown:
				counts.Down++
			default:
				counts.None++
			}
			next.scores[p.Name] = p.Score
		}
	}
	sort.Strings(entrants)

	return Result{
		Snapshot:    tagged,
		NewEntrants: entrants,
		History:     next,
		Counts:      counts,
	}
}

// Tag returns the movement for a player's current score against history.
func Tag(h History, player string, score int) model.Movement {
	last, ok := h.LastScore(player)
	switch {
	case !ok:
		return model.MovementNone
	case score < last:
		return model.MovementDown
	case score > last:
		return model.MovementUp
	default:
		return model.MovementNone
	}
}

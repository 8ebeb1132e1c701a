// Package ranking orders extracted teams into a top-N snapshot.
package ranking

import (
	"sort"
	"time"

	"github.com/okian/poolwatch/internal/domain/model"
)

// DefaultLimit is the size of the top-N snapshot.
const DefaultLimit = 10

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithLimit sets how many teams the snapshot keeps.
func WithLimit(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) {
		if now != nil {
			r.now = now
		}
	}
}

// Ranker produces snapshots. It holds no state between calls.
type Ranker struct {
	limit int
	now   func() time.Time
}

// New creates a Ranker with the default limit.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		limit: DefaultLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Limit returns the configured snapshot size.
func (r *Ranker) Limit() int { return r.limit }

// Rank builds a snapshot from teams in scrape order.
func (r *Ranker) Rank(teams []model.Team) model.Snapshot {
	return model.Snapshot{
		Teams:      Top(teams, r.limit),
		CapturedAt: r.now(),
	}
}

// Top stable-sorts a copy of teams ascending by aggregate score and keeps the
// first n, assigning 1-based ranks. Equal scores keep scrape order.
func Top(teams []model.Team, n int) []model.Team {
	if n < 1 {
		n = DefaultLimit
	}
	sorted := make([]model.Team, len(teams))
	for i, t := range teams {
		sorted[i] = t.Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}

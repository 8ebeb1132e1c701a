package testpage

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/scoring"
)

// Drift configuration constants.
const (
	startSpread    = 7 // initial player scores fall in [-startSpread, startSpread]
	driftChance    = 4 // one in driftChance players change score per step
	driftMagnitude = 2
	withdrawnRaw   = "WD"
)

// Pool is a simulated pool of teams whose player scores drift each step.
// It is safe for concurrent use.
type Pool struct {
	mu    sync.Mutex
	rng   *rand.Rand
	teams []model.Team
}

// NewPool creates a pool of teams with players each, seeded for reproducibility.
func NewPool(teams, players int, seed int64) *Pool {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation
	p := &Pool{rng: rng, teams: make([]model.Team, teams)}
	for i := range p.teams {
		t := model.Team{Name: fmt.Sprintf("Team %02d", i+1)}
		for j := 0; j < players; j++ {
			t.Players = append(t.Players, model.Player{
				Name:  fmt.Sprintf("Golfer %02d-%d", i+1, j+1),
				Score: rng.Intn(2*startSpread+1) - startSpread,
			})
		}
		p.teams[i] = t
	}
	p.refreshLocked()
	return p
}

// Step moves a random subset of player scores.
func (p *Pool) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.teams {
		for j := range p.teams[i].Players {
			pl := &p.teams[i].Players[j]
			if pl.Raw == withdrawnRaw || p.rng.Intn(driftChance) != 0 {
				continue
			}
			pl.Score += p.rng.Intn(2*driftMagnitude+1) - driftMagnitude
		}
	}
	p.refreshLocked()
}

// Withdraw marks a player as withdrawn; their token becomes unparseable.
func (p *Pool) Withdraw(team, player int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if team < 0 || team >= len(p.teams) || player < 0 || player >= len(p.teams[team].Players) {
		return
	}
	p.teams[team].Players[player].Raw = withdrawnRaw
	p.refreshLocked()
}

// Teams returns a copy of the current teams with raw tokens set.
func (p *Pool) Teams() []model.Team {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Team, len(p.teams))
	for i, t := range p.teams {
		out[i] = t.Clone()
	}
	return out
}

// Page renders the current standings.
func (p *Pool) Page() []byte {
	return Render(p.Teams())
}

// refreshLocked recomputes raw tokens and team totals. Withdrawn players do not count.
func (p *Pool) refreshLocked() {
	for i := range p.teams {
		total := 0
		for j := range p.teams[i].Players {
			pl := &p.teams[i].Players[j]
			if pl.Raw == withdrawnRaw {
				continue
			}
			pl.Raw = scoring.Format(pl.Score)
			total += pl.Score
		}
		p.teams[i].Score = total
		p.teams[i].Raw = scoring.Format(total)
	}
}

// Package render draws boards as text tables for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/scoring"
)

// Movement glyphs.
const (
	glyphDown = "▼"
	glyphUp   = "▲"
	timeFmt   = "2006-01-02 15:04:05 MST"
)

// Presenter displays one cycle's outcome.
type Presenter interface {
	Board(b repository.Board) error
	Failure(at time.Time, err error) error
}

// Option applies a configuration option to the Terminal.
type Option func(*Terminal)

// WithColor toggles ANSI colors on the movement glyphs.
func WithColor(enabled bool) Option {
	return func(t *Terminal) {
		t.color = enabled
	}
}

// WithTitle sets the heading printed above every board.
func WithTitle(title string) Option {
	return func(t *Terminal) {
		if title != "" {
			t.title = title
		}
	}
}

// Terminal writes boards as tab-aligned tables.
type Terminal struct {
	out   io.Writer
	title string
	color bool
	up    *color.Color
	down  *color.Color
	warn  *color.Color
	bold  *color.Color
}

// NewTerminal creates a presenter writing to out.
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		out:   out,
		title: "Golf Leaderboard Notifier",
		color: true,
		up:    color.New(color.FgRed, color.Bold),
		down:  color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow),
		bold:  color.New(color.Bold),
	}
	for _, opt := range opts {
		opt(t)
	}
	// When enabled, fatih/color still drops escapes on non-TTY output.
	if !t.color {
		for _, c := range []*color.Color{t.up, t.down, t.warn, t.bold} {
			c.DisableColor()
		}
	}
	return t
}

// Board renders the new-entrant notice and one table per team.
func (t *Terminal) Board(b repository.Board) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", t.bold.Sprint(t.title))
	fmt.Fprintf(&sb, "updated %s\n", b.UpdatedAt.Format(timeFmt))
	if !b.Active {
		fmt.Fprintf(&sb, "%s\n", t.warn.Sprint("outside active window; showing read-only standings"))
	}

	if len(b.NewEntrants) > 0 {
		fmt.Fprintf(&sb, "\nNew teams entered the top %d:\n", b.Limit)
		for _, name := range b.NewEntrants {
			fmt.Fprintf(&sb, "  %s has entered the top %d!\n", t.bold.Sprint(name), b.Limit)
		}
	}

	for _, team := range b.Snapshot.Teams {
		fmt.Fprintf(&sb, "\nTeam %d: %s - Score: %s\n", team.Rank, team.Name, scoring.Display(team.Score, team.Raw))
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  Player\tScore\t")
		for _, p := range team.Players {
			// The glyph is the last column so escape codes never skew alignment.
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name, scoring.Display(p.Score, p.Raw), t.glyph(p.Movement))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("render team %q: %w", team.Name, err)
		}
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(t.out, sb.String()); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	return nil
}

// Failure reports a failed cycle without re-rendering stale standings.
func (t *Terminal) Failure(at time.Time, err error) error {
	line := fmt.Sprintf("%s refresh failed: %v\n", at.Format(timeFmt), err)
	if _, werr := io.WriteString(t.out, t.warn.Sprint(line)); werr != nil {
		return fmt.Errorf("write failure: %w", werr)
	}
	return nil
}

func (t *Terminal) glyph(m model.Movement) string {
	switch m {
	case model.MovementDown:
		return t.down.Sprint(glyphDown)
	case model.MovementUp:
		return t.up.Sprint(glyphUp)
	default:
		return ""
	}
}

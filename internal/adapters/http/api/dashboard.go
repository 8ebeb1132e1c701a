package api

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/types"
)

const minRefreshSeconds = 1

// dashboardHandler handles dashboard requests.
type dashboardHandler struct {
	deps    LeaderboardDependencies
	refresh int
}

type dashboardPage struct {
	Title          string
	RefreshSeconds int
	Ready          bool
	Board          types.Board
}

// newDashboardHandler creates a new dashboard handler.
func newDashboardHandler(deps LeaderboardDependencies, refresh time.Duration) *dashboardHandler {
	secs := int(math.Ceil(refresh.Seconds()))
	if secs < minRefreshSeconds {
		secs = minRefreshSeconds
	}
	return &dashboardHandler{deps: deps, refresh: secs}
}

// HandleDashboard handles GET /dashboard requests with the board rendered
// server-side. The page reloads itself every refresh interval.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	page := dashboardPage{Title: "Golf Leaderboard Notifier", RefreshSeconds: h.refresh}
	view, err := boardView(r.Context(), h.deps)
	switch {
	case err == nil:
		page.Ready = true
		page.Board = view
	case !errors.Is(err, repository.ErrNoBoard):
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		writeError(w, http.StatusInternalServerError, "template_error", fmt.Errorf("%w: %w", ErrTemplate, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func glyph(movement string) string {
	switch movement {
	case "down":
		return "▼"
	case "up":
		return "▲"
	default:
		return ""
	}
}

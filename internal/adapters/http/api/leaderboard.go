package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Latest(ctx context.Context) (repository.Board, error)
	Status(ctx context.Context) repository.Status
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := boardView(r.Context(), h.deps)
	if errors.Is(err, repository.ErrNoBoard) {
		writeError(w, http.StatusServiceUnavailable, "no_board", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// boardView loads the latest board with the newest failure attached.
func boardView(ctx context.Context, deps LeaderboardDependencies) (types.Board, error) {
	b, err := deps.Latest(ctx)
	if err != nil {
		return types.Board{}, err
	}
	view := types.Board{
		CycleID:     b.CycleID,
		Active:      b.Active,
		Limit:       b.Limit,
		UpdatedAt:   b.UpdatedAt,
		NewEntrants: b.NewEntrants,
		Teams:       types.NewTeamEntries(b.Snapshot.Teams),
	}
	if view.NewEntrants == nil {
		view.NewEntrants = []string{}
	}
	// Only report a failure newer than the board being served.
	if st := deps.Status(ctx); st.LastError != "" && st.LastErrorAt.After(b.UpdatedAt) {
		view.LastError = st.LastError
	}
	return view, nil
}

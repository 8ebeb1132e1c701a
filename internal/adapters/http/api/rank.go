package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Team(ctx context.Context, name string) (model.Team, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{team} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Names arrive percent-decoded, so "Team%2001" resolves to "Team 01".
	name := strings.TrimPrefix(r.URL.Path, "/rank/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	team, err := h.deps.Team(r.Context(), name)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrNoBoard):
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewTeamEntry(team))
}

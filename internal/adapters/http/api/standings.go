package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// StandingsDependencies is the read side of the standings service.
type StandingsDependencies interface {
	Standings(ctx context.Context) (Standings, error)
	Rank(ctx context.Context, team string) (TeamStanding, error)
}

// StandingsHandler serves the current table.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGetStandings handles GET /standings.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	st, err := h.deps.Standings(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleGetTeam handles GET /standings/{team}.
func (h *StandingsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/standings/")
	team, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(team) == "" || strings.Contains(team, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ts, err := h.deps.Rank(r.Context(), team)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

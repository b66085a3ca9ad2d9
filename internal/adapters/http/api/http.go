// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/nrr/internal/app"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StandingsDependencies
	ProjectionDependencies
	TargetsDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	standingsHandler   *StandingsHandler
	projectionsHandler *ProjectionsHandler
	targetsHandler     *TargetsHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxFutureMatches caps the entries accepted by POST /projections.
func WithMaxFutureMatches(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.projectionsHandler.maxMatches = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		standingsHandler:   NewStandingsHandler(deps),
		projectionsHandler: NewProjectionsHandler(deps),
		targetsHandler:     NewTargetsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/standings/", MetricsMiddleware(s.standingsHandler.HandleGetTeam, "standings_team"))
	mux.HandleFunc("/projections", MetricsMiddleware(s.projectionsHandler.HandlePostProjection, "projections"))
	mux.HandleFunc("/targets", MetricsMiddleware(s.targetsHandler.HandlePostTargets, "targets"))
}

// projectionRequest mirrors the OpenAPI schema for POST /projections.
type projectionRequest struct {
	Matches []model.FutureMatch `json:"matches"`
}

// targetsRequest mirrors the OpenAPI schema for POST /targets.
type targetsRequest struct {
	Runs  *int     `json:"runs"`
	Overs *float64 `json:"overs"`
}

func (t targetsRequest) validate() error {
	switch {
	case t.Runs == nil:
		return errors.New("missing runs")
	case t.Overs == nil:
		return errors.New("missing overs")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Read shapes returned by handlers.
type (
	Standings    = types.Standings
	TeamStanding = types.TeamStanding
	Projection   = types.Projection
	Targets      = types.Targets
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

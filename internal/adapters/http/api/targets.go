package api

import (
	"context"
	"net/http"
)

// TargetsDependencies computes performance-bonus targets.
type TargetsDependencies interface {
	Targets(ctx context.Context, runs int, overs float64) (Targets, error)
}

// TargetsHandler handles POST /targets.
type TargetsHandler struct {
	deps TargetsDependencies
}

// NewTargetsHandler creates a new targets handler.
func NewTargetsHandler(deps TargetsDependencies) *TargetsHandler {
	return &TargetsHandler{deps: deps}
}

// HandlePostTargets returns the bonus thresholds for a first innings score.
func (h *TargetsHandler) HandlePostTargets(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_targets"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req targetsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	tg, err := h.deps.Targets(r.Context(), *req.Runs, *req.Overs)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tg)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/nrr/internal/domain/model"
)

const defaultMaxFutureMatches = 64

// ProjectionDependencies runs what-if projections.
type ProjectionDependencies interface {
	Project(ctx context.Context, futures []model.FutureMatch) (Projection, error)
}

// ProjectionsHandler handles POST /projections.
type ProjectionsHandler struct {
	deps       ProjectionDependencies
	maxMatches int
}

// NewProjectionsHandler creates a new projections handler.
func NewProjectionsHandler(deps ProjectionDependencies) *ProjectionsHandler {
	return &ProjectionsHandler{deps: deps, maxMatches: defaultMaxFutureMatches}
}

// HandlePostProjection projects the table over the submitted future matches.
// Invalid entries are reported in the response rather than failing the call.
func (h *ProjectionsHandler) HandlePostProjection(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_projection"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req projectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Matches) > h.maxMatches {
		err := fmt.Errorf("%d matches, limit %d", len(req.Matches), h.maxMatches)
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
		return
	}

	p, err := h.deps.Project(r.Context(), req.Matches)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

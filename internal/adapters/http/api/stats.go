package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider reports service statistics: load state, cache use and rules.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves GET /stats. It adds the server uptime to whatever the
// provider reports.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
	now      func() time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now(), now: time.Now}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	out := make(map[string]any)
	maps.Copy(out, h.provider.GetStats())
	out["uptimeSeconds"] = int64(h.now().Sub(h.started).Seconds())
	writeJSON(w, http.StatusOK, out)
}

// Package site serves the human-readable standings page.
package site

import (
	"bytes"
	"context"
	"net/http"

	"github.com/okian/nrr/internal/adapters/render"
	"github.com/okian/nrr/internal/domain/types"
)

// StandingsSource supplies the table shown on the page.
type StandingsSource interface {
	Standings(ctx context.Context) (types.Standings, error)
}

// Register attaches the standings page to mux at "/".
func Register(_ context.Context, mux *http.ServeMux, src StandingsSource) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler(src))
}

// RootHandler renders the current standings as HTML.
type RootHandler struct {
	src      StandingsSource
	renderer *render.Renderer
}

// NewRootHandler creates a new root handler.
func NewRootHandler(src StandingsSource) *RootHandler {
	return &RootHandler{src: src, renderer: render.New(render.FormatHTML)}
}

// ServeHTTP handles GET /. Every other path under the catch-all is a 404.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	st, err := h.src.Standings(r.Context())
	if err != nil {
		http.Error(w, "standings unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	var body bytes.Buffer
	body.WriteString(pageHead)
	if err := h.renderer.Standings(&body, st); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body.WriteString(pageTail)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body.Bytes())
}

const pageHead = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Standings</title>
    <style>
      body{font-family:sans-serif;margin:2em}
      table{border-collapse:collapse;margin-bottom:2em}
      td,th{border:1px solid #ccc;padding:4px 8px}
    </style>
  </head>
  <body>
`

const pageTail = `    <p><a href="/api-docs">API reference</a></p>
  </body>
</html>
`

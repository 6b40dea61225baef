// Package apihandler implements the HTTP endpoints the visualization
// frontend calls: engine status, descriptor listing, method category listing
// and the Sankey graph itself.
package apihandler

import (
	"context"
	"net/http"

	"sankey/internal/config"
	"sankey/internal/sankey"

	"github.com/gorilla/mux"
)

// StatusProber reports whether the engine behind the gateway is reachable.
type StatusProber interface {
	Status(ctx context.Context) bool
}

// Deps are the collaborators the handlers forward to.
type Deps struct {
	// Gateway answers the status endpoint.
	Gateway StatusProber
	// Sankey serves every data endpoint.
	Sankey sankey.Service
}

// Options carry the defaults applied when the frontend omits parameters.
type Options struct {
	// DefaultMaxNodes limits the contribution graph when max_nodes is absent.
	DefaultMaxNodes int
	// DefaultMinShare is the minimum share in percent when min_share is absent.
	DefaultMinShare float64
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		DefaultMaxNodes: cfg.Sankey.MaxNodes,
		DefaultMinShare: cfg.Sankey.MinShare,
	}
}

// Handler serves the frontend-facing API routes.
type Handler struct {
	deps Deps
	opts Options
}

// New creates a Handler with the given collaborators and defaults.
func New(deps Deps, opts Options) *Handler {
	return &Handler{deps: deps, opts: opts}
}

// RegisterRoutes mounts every API route on the router. The paths mirror the
// ones the frontend already uses, including the legacy graph alias.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/status", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/api/descriptors/{model_type}", h.Descriptors).Methods(http.MethodGet)
	r.HandleFunc("/api/method/{method_id}/categories", h.Categories).Methods(http.MethodGet)
	r.HandleFunc("/api/sankey/{system_id}", h.Sankey).Methods(http.MethodGet)
	// kept for older frontend builds
	r.HandleFunc("/api/graph/{system_id}", h.Sankey).Methods(http.MethodGet)
}

package apihandler

import (
	"net/http"

	"sankey/pkg/olca"
)

// Status reports whether the engine is reachable. The endpoint always
// answers 200; connectivity is expressed in the body so the frontend can
// render a banner instead of an error page.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.deps.Gateway.Status(r.Context()) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "connected",
		"version": olca.TargetEngineVersion,
	})
}

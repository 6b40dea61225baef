package apihandler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Descriptors lists engine descriptors for the model type named in the path.
// Unknown model types yield an empty list.
func (h *Handler) Descriptors(w http.ResponseWriter, r *http.Request) {
	modelType := mux.Vars(r)["model_type"]

	refs, err := h.deps.Sankey.Descriptors(r.Context(), modelType)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, refs)
}

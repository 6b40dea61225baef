package apihandler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Categories lists the impact categories of the method named in the path,
// including each category's reference unit.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	methodID := mux.Vars(r)["method_id"]

	categories, err := h.deps.Sankey.Categories(r.Context(), methodID)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, categories)
}

package apihandler

import (
	"net/http"
	"strconv"

	"sankey/internal/sankey"
	"sankey/pkg/serrors"

	"github.com/gorilla/mux"
)

// Sankey runs a calculation for the product system named in the path and
// returns the shaped contribution graph. Query parameters: impact_method_id,
// impact_category_id, max_nodes and min_share (a percentage).
func (h *Handler) Sankey(w http.ResponseWriter, r *http.Request) {
	systemID := mux.Vars(r)["system_id"]
	query := r.URL.Query()

	params := sankey.Params{
		ImpactMethodID:   query.Get("impact_method_id"),
		ImpactCategoryID: query.Get("impact_category_id"),
		MaxNodes:         h.opts.DefaultMaxNodes,
		MinShare:         h.opts.DefaultMinShare,
	}

	if raw := query.Get("max_nodes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid max_nodes"))

			return
		}
		params.MaxNodes = n
	}
	if raw := query.Get("min_share"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid min_share"))

			return
		}
		params.MinShare = f
	}

	diagram, err := h.deps.Sankey.Build(r.Context(), systemID, params)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, diagram)
}

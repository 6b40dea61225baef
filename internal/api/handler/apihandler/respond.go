package apihandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sankey/pkg/logger"
	"sankey/pkg/serrors"

	"go.uber.org/zap"
)

// writeJSON renders v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a semantic error kind to an HTTP status code and passes the
// underlying message through to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, serrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, serrors.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, serrors.ErrBadRequest):
		status = http.StatusBadRequest
	}

	logger.Error(r.Context(), "request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sehatin/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldError reports a client-side validation failure inline against a
// single field. No upstream call has been made when this fires.
func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"errors": map[string]string{field: msg},
	})
}

// writeUpstreamError maps an upstream failure onto this surface: auth
// problems pass through so the UI can redirect to login, everything else is a
// bad gateway with a message the UI shows as a transient notification.
func writeUpstreamError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	var se *upstream.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		logger.Warn("upstream rejected credentials", zap.Int("status", se.StatusCode))
		writeError(w, se.StatusCode, "unauthorized")
		return
	}
	logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusBadGateway, msg)
}

// Package http exposes the gateway's JSON API: auth flows, the member's
// habit/leaderboard/reward stores, and the session-guarded admin surface.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "stride/pkg/domain-errors"
	httpErrors "stride/pkg/http-errors"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	status, code := httpErrors.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
		)
	}
	respondJSON(w, status, errorResponse{
		Error:       code,
		Description: dErrors.Message(err),
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body")
	}
	return nil
}

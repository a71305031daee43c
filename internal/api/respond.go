package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lmercier/giftpool/internal/service"
)

// respondData writes the success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondFail writes the failure envelope with a caller-facing message.
func respondFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError translates a service failure into the envelope. Errors
// outside the domain taxonomy are logged and reported generically so
// internals never leak to the caller.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		overfunded *service.OverfundedError
		conflict   *service.ConflictError
		authz      *service.AuthorizationError
	)
	switch {
	case errors.As(err, &validation):
		respondFail(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		respondFail(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &overfunded):
		respondFail(w, http.StatusUnprocessableEntity, overfunded.Error())
	case errors.As(err, &conflict):
		respondFail(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &authz):
		respondFail(w, http.StatusForbidden, authz.Error())
	default:
		slog.Error("Unhandled error", "error", err)
		respondFail(w, http.StatusInternalServerError, "an internal error occurred")
	}
}

// decodeJSON reads the request body into dst, returning a ValidationError
// on malformed input so it lands in the envelope as a 400.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Reason: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

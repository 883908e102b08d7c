package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
)

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// WriteJSON renders v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a service error to its HTTP status; anything else is a
// logged 500.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if svcErr, ok := application.IsServiceError(err); ok {
		if svcErr.Err != nil {
			logger.Warn("request rejected", "code", svcErr.Code, "error", svcErr.Err)
		}
		WriteJSON(w, svcErr.HTTPStatus, errorResponse{ErrorMessage: svcErr.Message})
		return
	}

	logger.Error("unhandled error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorResponse{ErrorMessage: "Internal server error."})
}

// WriteNotFound is the JSON 404 used for unknown routes and accounts.
func WriteNotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, errorResponse{ErrorMessage: "Requested URL not found."})
}

// WriteBadRequest rejects malformed client input with a short message.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, errorResponse{ErrorMessage: message})
}

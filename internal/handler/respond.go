package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openquran/versehub/internal/service"
)

// envelope is the API's uniform response shape. The payload status always
// matches the HTTP status actually sent.
type envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(envelope{Status: status, Data: data, Message: message})
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, nil, message)
}

// respondServiceError maps workflow errors onto HTTP statuses. Unknown errors
// become a generic 500; the detail goes to the log, not the client.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrNameTaken):
		respondError(w, http.StatusConflict, service.ErrNameTaken.Error())
	case errors.Is(err, service.ErrMissingToken):
		respondError(w, http.StatusUnauthorized, service.ErrMissingToken.Error())
	case errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, service.ErrInvalidToken.Error())
	case errors.Is(err, service.ErrTokenReuse):
		respondError(w, http.StatusUnauthorized, service.ErrTokenReuse.Error())
	case errors.Is(err, service.ErrSecretMismatch):
		respondError(w, http.StatusUnauthorized, service.ErrSecretMismatch.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respondError(w, http.StatusNotFound, service.ErrUserNotFound.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrDuplicateTranslation):
		respondError(w, http.StatusConflict, service.ErrDuplicateTranslation.Error())
	case errors.Is(err, service.ErrTranslationNotFound):
		respondError(w, http.StatusNotFound, service.ErrTranslationNotFound.Error())
	case errors.Is(err, service.ErrEmailDelivery):
		respondError(w, http.StatusBadGateway, service.ErrEmailDelivery.Error())
	default:
		slog.Error("unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// decodeJSON reads the request body into dst, rejecting junk early.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

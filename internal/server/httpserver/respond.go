package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/stakr/internal/common"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeBearerChallenge answers 401 with the header clients need to retry
// with a token.
func writeBearerChallenge(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeError(w, http.StatusUnauthorized, detail)
}

// statusFor maps service errors onto HTTP status codes and public messages.
// Messages never echo the wrapped cause.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrEmailInUse):
		return http.StatusBadRequest, "Email already in use"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, "Validation error"
	case errors.Is(err, common.ErrorUnavailable):
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

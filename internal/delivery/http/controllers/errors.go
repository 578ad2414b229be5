package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "chipin/internal/delivery/http/helpers"
	"chipin/internal/delivery/http/middleware"
	"chipin/internal/domain"
)

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// writeServiceError maps service errors to responses. Unknown errors are
// logged and written as 500. notFound is the message used for ErrNotFound.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, inputMessage(err))
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// inputMessage strips the sentinel prefix from a wrapped ErrInvalidInput.
func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return domain.ErrInvalidInput.Error()
	}
	return msg
}

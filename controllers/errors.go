package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankingProject/services"
)

// statusForError сопоставляет ошибку сервиса с HTTP статусом
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSameAccount),
		errors.Is(err, services.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, services.ErrAccountNotActive),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrIllegalTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError отправляет ошибку в формате JSON
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForError(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeJSON отправляет успешный ответ в формате JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

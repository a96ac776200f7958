// ABOUTME: Uniform JSON response envelope and error-to-status translation
// ABOUTME: Every handler success and failure flows through these helpers

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// internalErrorMessage is the only text a 500 ever carries. The real
// failure goes to the log, not the wire.
const internalErrorMessage = "An unexpected error occurred!"

// apiResponse is the envelope every endpoint answers with. Timestamp is
// Unix milliseconds.
type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

func writeResponse(w http.ResponseWriter, status int, resp apiResponse) {
	resp.Timestamp = time.Now().UnixMilli()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeResponse(w, status, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeResponse(w, status, apiResponse{Success: false, Message: message})
}

// respondValidationError reports per-field validation messages as the
// data payload of a 400.
func respondValidationError(w http.ResponseWriter, err error) {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	details := make([]string, 0, len(fields))
	for field, ferr := range fields {
		details = append(details, field+": "+ferr.Error())
	}
	sort.Strings(details)

	writeResponse(w, http.StatusBadRequest, apiResponse{
		Success: false,
		Message: "Validation failed",
		Data:    details,
	})
}

// respondDomainError is the single boundary translator from the error
// taxonomy to HTTP statuses. Anything it does not recognize is logged in
// full and reported with the fixed generic message.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername), errors.Is(err, auth.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrUnknownUser),
		errors.Is(err, auth.ErrBadPassword):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrUsernameExists), errors.Is(err, store.ErrEmailExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		respondError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

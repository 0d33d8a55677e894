// Package handlers serves the JSON API and the HTML pages
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// Error messages that are not shown by the store itself
const (
	msgInvalidBody   = "invalid request body"
	msgCorruptData   = "stored data is corrupt"
	msgInternalError = "internal server error"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.AuthResult{OK: false, Error: message})
}

// errorStatus maps a store error to its HTTP status and the message shown to the user
func errorStatus(err error) (int, string) {
	var validationErr *models.ValidationError
	var authErr *models.AuthError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, models.ErrDuplicateAccount) && errors.As(err, &authErr):
		return http.StatusConflict, authErr.Message
	case errors.Is(err, models.ErrInvalidCredentials) && errors.As(err, &authErr):
		return http.StatusUnauthorized, authErr.Message
	case models.IsStorageParseError(err):
		return http.StatusInternalServerError, msgCorruptData
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// RespondServiceError logs "err" and sends the matching error JSON response
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	status, message := errorStatus(err)
	fields = append(fields, zap.Error(err))
	if status >= http.StatusInternalServerError {
		h.Logger.Error(msg, fields...)
	} else {
		h.Logger.Info(msg, fields...)
	}
	h.RespondError(w, status, message)
}

package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorMessage writes an error body with an explicit code and status.
func ErrorMessage(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Error: code, Message: message})
}

// Error maps err onto a status code. Unclassified errors are logged and hidden.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	var v *apperrors.ValidationError
	switch {
	case errors.As(err, &v):
		JSON(w, http.StatusBadRequest, ErrorBody{Error: "invalid_input", Message: "Validation failed", Fields: v.Fields})
	case errors.Is(err, apperrors.ErrInvalid):
		ErrorMessage(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		ErrorMessage(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		ErrorMessage(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		ErrorMessage(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		ErrorMessage(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		ErrorMessage(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		ErrorMessage(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}

// Decode reads a JSON body into dst, reporting a uniform invalid-body error.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Invalid("body", "Invalid request body")
	}
	return nil
}

// Package respond writes JSON responses and maps domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"newshub/internal/domain/entity"
)

// JSON writes v as the response body with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// ヘッダー送信済みのためログのみ
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": err.Error()} without any sanitizing.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrValidationFailed), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, entity.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with the status StatusFor picks for it.
func FromError(w http.ResponseWriter, err error) {
	SafeError(w, StatusFor(err), err)
}

// SafeError returns 4xx messages as they are. Anything 5xx is logged with
// secrets masked and replaced by a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if code < http.StatusInternalServerError {
		JSON(w, code, map[string]string{"error": userMessage(err)})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// DecodeJSON decodes the request body into v. Malformed or oversized
// bodies and unknown fields are a ValidationError on "body".
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &entity.ValidationError{Field: "body", Message: "request body too large"}
		}
		return &entity.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// userMessage prefers the field-level message of a validation error over
// the fully wrapped chain.
func userMessage(err error) string {
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var pe *entity.PreconditionError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return err.Error()
}

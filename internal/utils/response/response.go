// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here, together with
// the mapping from errors to HTTP status codes.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/utils/request"
	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses return the resource itself (a course, a list…).
// Error responses always look like:
//
//	{ "status": "error", "error": "field name is required", "fields": {"name": "is required"} }
//
// Fields is only present for validation errors.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status string constants. A typo in a constant name is a compile error;
// a typo in a literal is a silent bug.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bodiless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError converts validator.FieldError values into a single
// human-readable message plus a per-field map.
//
// Example output:
//
//	{ "status": "error", "error": "field name is required", "fields": {"name": "is required"} }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string
	fields := make(map[string]string, len(errs))

	for _, e := range errs {
		var msg string
		switch e.ActualTag() {
		case "required":
			msg = "is required"
		case "min":
			msg = fmt.Sprintf("must be at least %s characters", e.Param())
		case "max":
			msg = fmt.Sprintf("must be at most %s characters", e.Param())
		case "gt":
			msg = fmt.Sprintf("must be greater than %s", e.Param())
		case "datetime":
			msg = fmt.Sprintf("must be a date in the format %s", e.Param())
		default:
			msg = "is invalid"
		}

		fields[e.Field()] = msg
		errMessages = append(errMessages, fmt.Sprintf("field %s %s", e.Field(), msg))
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
		Fields: fields,
	}
}

// StatusFor maps an error to the HTTP status code it should produce.
//
//	body over the size limit            → 413
//	validation / bad params / bad body  → 400
//	storage.ErrIntegrity                → 400
//	storage.ErrNotFound                 → 404
//	storage.ErrUnavailable, deadlines   → 503
//	anything else                       → 500
func StatusFor(err error) int {
	var (
		verrs   validator.ValidationErrors
		invalid *request.InvalidParamError
		tooBig  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &verrs),
		errors.As(err, &invalid),
		errors.Is(err, request.ErrEmptyBody),
		errors.Is(err, request.ErrMalformedBody),
		errors.Is(err, storage.ErrIntegrity):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status from StatusFor. Validation errors get
// the per-field body.
func Error(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteJSON(w, http.StatusBadRequest, ValidationError(verrs))
		return
	}

	WriteJSON(w, StatusFor(err), GeneralError(err))
}

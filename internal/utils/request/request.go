// Package request holds the decoding half of the handlers: JSON bodies,
// path IDs and list filters.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/go-chi/chi/v5"
)

var (
	// ErrEmptyBody is returned by DecodeJSON when the request has no body.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrMalformedBody wraps every other decode failure.
	ErrMalformedBody = errors.New("malformed JSON body")
)

// InvalidParamError reports a path or query parameter that failed to parse.
type InvalidParamError struct {
	Param string
	Value string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be an integer", e.Param, e.Value)
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return nil
}

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &InvalidParamError{Param: "id", Value: raw}
	}
	return id, nil
}

// ListFilter builds a storage.Filter from the ?id= and ?name= query
// parameters. Absent or empty parameters do not filter.
func ListFilter(r *http.Request) (storage.Filter, error) {
	var filter storage.Filter
	query := r.URL.Query()

	if raw := query.Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return storage.Filter{}, &InvalidParamError{Param: "id", Value: raw}
		}
		filter.ID = &id
	}

	if name := query.Get("name"); name != "" {
		filter.Name = &name
	}

	return filter, nil
}

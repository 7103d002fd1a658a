// Package pathutil parses route parameters and normalizes paths for metric labels.
package pathutil

import (
	"net/http"
	"strconv"

	"newshub/internal/domain/entity"
)

// ParseID parses a positive integer path value registered as {name}.
func ParseID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &entity.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// QueryInt reads an optional integer query parameter. A missing value
// returns def; a malformed or negative one is a ValidationError.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &entity.ValidationError{Field: name, Message: "must be a non-negative integer"}
	}
	return v, nil
}

package httpapi

import (
	"net/http"

	json "github.com/goccy/go-json"

	"novad/internal/engine"
	"novad/internal/manager"
	"novad/internal/registry"
	"novad/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// errorStatus maps well-known domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case registry.IsUnknownModel(err):
		return http.StatusNotFound
	case manager.IsBusy(err):
		return http.StatusConflict
	case manager.IsClosed(err):
		return http.StatusServiceUnavailable
	case engine.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

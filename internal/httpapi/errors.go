package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mlactions/internal/hub"
	"mlactions/internal/pipeline"
	"mlactions/internal/runtime"
	"mlactions/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps well-known errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case runtime.IsSetupFailed(err):
		return http.StatusBadGateway
	case runtime.IsNotFound(err):
		return http.StatusNotFound
	case runtime.IsAlreadyInitialized(err):
		return http.StatusForbidden
	case pipeline.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case hub.IsUnauthorized(err), errors.Is(err, hub.ErrNoToken):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

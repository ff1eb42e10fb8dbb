package hub

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when an operation needs a token and none is set.
var ErrNoToken = errors.New("hub: no token")

// unauthorizedError signals rejected credentials (401/403).
type unauthorizedError struct{ status int }

func (e unauthorizedError) Error() string { return fmt.Sprintf("hub: unauthorized (status %d)", e.status) }

// IsUnauthorized reports whether err indicates the hub rejected the credentials.
func IsUnauthorized(err error) bool {
	var ue unauthorizedError
	return errors.As(err, &ue)
}

// statusError carries an unexpected hub HTTP status.
type statusError struct {
	status int
	body   string
}

func (e statusError) Error() string { return fmt.Sprintf("hub: http %d: %s", e.status, e.body) }

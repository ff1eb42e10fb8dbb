package runtime

import (
	"errors"
	"net/http"
)

// notFoundError is returned for an unknown action or activation id.
type notFoundError struct{ what, id string }

func (e notFoundError) Error() string { return e.what + " not found: " + e.id }

func (e notFoundError) StatusCode() int { return http.StatusNotFound }

// ErrActionNotFound returns an error for an unregistered action name.
func ErrActionNotFound(name string) error { return notFoundError{what: "action", id: name} }

// IsNotFound reports whether err names a missing action or activation.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// alreadyInitializedError rejects a second setup of the same action.
type alreadyInitializedError struct{ name string }

func (e alreadyInitializedError) Error() string {
	return "cannot initialize action " + e.name + " more than once"
}

func (e alreadyInitializedError) StatusCode() int { return http.StatusForbidden }

// IsAlreadyInitialized reports whether err is a repeated setup.
func IsAlreadyInitialized(err error) bool {
	var ae alreadyInitializedError
	return errors.As(err, &ae)
}

// noStatusError means no setup status was stored for the action.
type noStatusError struct{ name string }

func (e noStatusError) Error() string { return "no setup status for action " + e.name }

func (e noStatusError) StatusCode() int { return http.StatusNotFound }

// setupFailedError wraps the error returned by an action's Setup.
type setupFailedError struct {
	name string
	err  error
}

func (e setupFailedError) Error() string { return "setup of " + e.name + " failed: " + e.err.Error() }

func (e setupFailedError) Unwrap() error { return e.err }

func (e setupFailedError) StatusCode() int { return http.StatusBadGateway }

// IsSetupFailed reports whether err came from a failed setup stage.
func IsSetupFailed(err error) bool {
	var se setupFailedError
	return errors.As(err, &se)
}

package pipeline

import "errors"

// dependencyUnavailableError signals a missing or not-yet-ready backend so
// the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}

type unsupportedTaskError struct{ task string }

func (e unsupportedTaskError) Error() string { return "pipeline: unsupported task: " + e.task }

// IsUnsupportedTask reports whether err names a task no backend handles.
func IsUnsupportedTask(err error) bool {
	var ue unsupportedTaskError
	return errors.As(err, &ue)
}

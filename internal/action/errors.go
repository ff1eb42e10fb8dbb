package action

import (
	"errors"
	"net/http"
)

// invalidArgError is returned for arguments of the wrong shape.
type invalidArgError struct {
	key  string
	want string
}

func (e invalidArgError) Error() string { return "invalid argument " + e.key + ": want " + e.want }

// StatusCode maps to 400 Bad Request.
func (e invalidArgError) StatusCode() int { return http.StatusBadRequest }

// IsInvalidArg reports whether err is an argument validation failure.
func IsInvalidArg(err error) bool {
	var ie invalidArgError
	return errors.As(err, &ie)
}

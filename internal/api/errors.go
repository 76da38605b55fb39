package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned by operations that need a session token when
// none is held.
var ErrAuthRequired = errors.New("not logged in")

// NetworkError reports a request that could not be performed at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError reports a non-2xx response. Message holds the `{error}` field
// when the backend sent one; Body holds the raw response text.
type BackendError struct {
	Status  int
	Message string
	Body    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Status == 401
}

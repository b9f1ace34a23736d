package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnreachable       = errors.New("cannot reach backend")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx reply. It matches the sentinel for its status with
// errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// CodeRoleMismatch marks a 403 that invalidates the session itself, as
// opposed to a 403 for one resource the role may not see.
const CodeRoleMismatch = "ROLE_MISMATCH"

// IsAuthFailure reports whether err should send the user back to login: any
// 401, or a 403 carrying CodeRoleMismatch.
func IsAuthFailure(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Status == http.StatusForbidden &&
		apiErr.Code == CodeRoleMismatch
}

// Package resolve holds the optimistic-concurrency rules shared by every
// item that moves from Pending to Approved or Rejected.
package resolve

import (
	"net/http"

	"hr-portal/internal/domain"
	"hr-portal/internal/shared/apperror"
)

var (
	ErrInvalidTarget = apperror.New(
		apperror.CodeInvalidState,
		"status must be Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrAlreadyResolved = apperror.New(
		"ALREADY_RESOLVED",
		"request has already been resolved",
		http.StatusConflict,
	)
	ErrVersionConflict = apperror.New(
		"VERSION_CONFLICT",
		"request was modified concurrently, reload and retry",
		http.StatusConflict,
	)
)

// Target parses the requested status and insists it is terminal.
func Target(raw string) (domain.Status, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil || !status.Terminal() {
		return "", ErrInvalidTarget
	}
	return status, nil
}

// Conflict explains why a guarded update matched no row, given the status
// the row has now. A row that is still pending was matched on a stale version.
func Conflict(current domain.Status) error {
	if current.Terminal() {
		return ErrAlreadyResolved
	}
	return ErrVersionConflict
}

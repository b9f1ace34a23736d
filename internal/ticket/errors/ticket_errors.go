package ticketerrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrTicketNotFound = apperror.New(
		apperror.CodeNotFound,
		"ticket not found",
		http.StatusNotFound,
	)
	ErrTicketAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"ticket id already taken",
		http.StatusConflict,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status filter must be Pending, Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrResolveForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR can resolve tickets",
		http.StatusForbidden,
	)
)

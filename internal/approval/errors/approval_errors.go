package approvalerrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrApprovalNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval not found",
		http.StatusNotFound,
	)
	ErrApprovalAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"transaction id already taken",
		http.StatusConflict,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status filter must be Pending, Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrResolveForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR can resolve approvals",
		http.StatusForbidden,
	)
)

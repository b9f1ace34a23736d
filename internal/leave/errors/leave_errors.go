package leaveerrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave type must be Casual Leave, Sick Leave or Privilege Leave",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not precede start_date and the period must span exactly days",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status filter must be Pending, Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		"INSUFFICIENT_BALANCE",
		"not enough leave balance for this request",
		http.StatusUnprocessableEntity,
	)
	ErrResolveForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR can approve or reject leave",
		http.StatusForbidden,
	)
)

package employeeerrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrBlankName = apperror.New(
		apperror.CodeInvalidInput,
		"name must not be blank",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		"INSUFFICIENT_BALANCE",
		"Insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only access your own profile",
		http.StatusForbidden,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to build employee export",
		http.StatusInternalServerError,
	)
)

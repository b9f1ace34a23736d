package chaterrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrEmptyMessage = apperror.New(
		apperror.CodeInvalidInput,
		"message must not be empty",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only chat on your own behalf",
		http.StatusForbidden,
	)
	ErrAssistantUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"assistant is unavailable, try again later",
		http.StatusServiceUnavailable,
	)
)

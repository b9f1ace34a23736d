package policyerrors

import (
	"net/http"

	"hr-portal/internal/shared/apperror"
)

var (
	ErrManageForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR can manage policy documents",
		http.StatusForbidden,
	)
	ErrDraftsForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR can see draft policy documents",
		http.StatusForbidden,
	)
	ErrTitleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"title is required and must be at most 200 characters",
		http.StatusBadRequest,
	)
	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a PDF file is required",
		http.StatusBadRequest,
	)
	ErrNotPDF = apperror.New(
		apperror.CodeInvalidInput,
		"only PDF documents are accepted",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"file exceeds the 10MB limit",
		http.StatusRequestEntityTooLarge,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be draft or published",
		http.StatusBadRequest,
	)
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"policy document not found",
		http.StatusNotFound,
	)
	ErrAlreadyPublished = apperror.New(
		apperror.CodeInvalidState,
		"policy document is already published",
		http.StatusConflict,
	)
	ErrStorageUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"document storage is not configured",
		http.StatusServiceUnavailable,
	)
)

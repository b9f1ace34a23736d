package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hr-portal/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "already resolved", http.StatusConflict)
		got := apperror.ToHTTP(fmt.Errorf("resolve: %w", err))

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "already resolved", got.Message)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "pq")
	})
}

func TestAppError_Is(t *testing.T) {
	sentinel := apperror.New(apperror.CodeNotFound, "ticket not found", http.StatusNotFound)
	wrapped := sentinel.WithCause(errors.New("record not found"))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, apperror.ErrNotFound)
}

type leaveForm struct {
	StartDate string `json:"start_date" validate:"required"`
	Days      int    `json:"days" validate:"gt=0"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.JSONTagName)

	err := apperror.MapValidationError(v.Struct(leaveForm{Days: 1}))
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Start Date is required", appErr.Message)

	err = apperror.MapValidationError(v.Struct(leaveForm{StartDate: "2026-05-01"}))
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Days is invalid", appErr.Message)
}

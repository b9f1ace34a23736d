package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	err := translateError(minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))

	denied := translateError(minio.ErrorResponse{Code: "AccessDenied"})
	assert.NotErrorIs(t, denied, ErrObjectNotFound)
}

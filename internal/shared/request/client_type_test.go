package request_test

import (
	"testing"

	"hr-portal/internal/shared/request"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientType(t *testing.T) {
	assert.Equal(t, request.ClientCLI, request.ResolveClientType("cli", "Mozilla/5.0"))
	assert.Equal(t, request.ClientWeb, request.ResolveClientType("", "Mozilla/5.0 (X11; Linux x86_64)"))
	assert.Equal(t, request.ClientCLI, request.ResolveClientType("", "hr-portal/1.0"))
	assert.True(t, request.IsWebClient(request.ResolveClientType("WEB", "")))
}

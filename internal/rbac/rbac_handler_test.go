package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-portal/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct{}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role == domain.RoleHR && req.Resource == ResourceEmployee && req.Action == ActionRead, nil
}

func (m *mockService) Permissions(role domain.Role) ([]domain.PermissionResponse, error) {
	return []domain.PermissionResponse{{Role: role, Resource: ResourceChat, Action: ActionCreate}}, nil
}

func newRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
			c.Set("user_id", "u-1")
		}
	})
	RegisterRoutes(router.Group("/api"), NewHandler(&mockService{}))
	return router
}

func TestHandler_Enforce(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"resource": "employee", "action": "read"})

	t.Run("hr allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/rbac/enforce", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newRouter("HR").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Status string                 `json:"status"`
			Data   domain.EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "success", env.Status)
		assert.True(t, env.Data.Allowed)
	})

	t.Run("negative missing auth context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/rbac/enforce", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newRouter("").ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative validation", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/rbac/enforce", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		newRouter("HR").ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Permissions(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rbac/permissions", nil)
	newRouter("EMPLOYEE").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resource":"chat"`)
}

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/middleware"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef-test"

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], f.err
}

type fakeRBAC struct {
	EnforceFn func(req domain.EnforceRequest) (bool, error)
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.EnforceFn(req)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withIdentity(userID string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.KeyUserID, userID)
		c.Set(middleware.KeyRole, string(role))
		c.Next()
	}
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager(testSecret, time.Hour)

	newRouter := func(bl token.Blacklist) *gin.Engine {
		r := setupRouter()
		r.GET("/me", middleware.AuthMiddleware(tokens, bl), func(c *gin.Context) {
			assert.Equal(t, "EMP001", c.GetString(middleware.KeyUserID))
			assert.Equal(t, "HR", c.GetString(middleware.KeyRole))
			assert.Equal(t, "EMP001", contextutil.GetUserID(c.Request.Context()))
			assert.Equal(t, domain.RoleHR, contextutil.GetRole(c.Request.Context()))
			assert.Greater(t, middleware.TokenTTL(c), time.Duration(0))
			ok(c)
		})
		return r
	}

	t.Run("valid bearer token", func(t *testing.T) {
		raw, _, err := tokens.Issue("EMP001", domain.RoleHR, "Asha")
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		newRouter(&fakeBlacklist{revoked: map[string]bool{}}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid cookie token", func(t *testing.T) {
		raw, _, _ := tokens.Issue("EMP001", domain.RoleHR, "Asha")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: raw})
		newRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"error"`)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		newRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := token.NewManager(testSecret, -time.Minute)
		raw, _, _ := expired.Issue("EMP001", domain.RoleHR, "Asha")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		newRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("revoked token", func(t *testing.T) {
		raw, claims, _ := tokens.Issue("EMP001", domain.RoleHR, "Asha")
		bl := &fakeBlacklist{revoked: map[string]bool{claims.TokenID: true}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		newRouter(bl).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("blacklist unavailable", func(t *testing.T) {
		raw, _, _ := tokens.Issue("EMP001", domain.RoleHR, "Asha")
		bl := &fakeBlacklist{revoked: map[string]bool{}, err: errors.New("redis down")}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		newRouter(bl).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := setupRouter()
	r.GET("/hr/:role", func(c *gin.Context) {
		c.Set(middleware.KeyRole, c.Param("role"))
		c.Next()
	}, middleware.RoleMiddleware(domain.RoleHR), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hr/HR", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hr/EMPLOYEE", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExtractUserID(t *testing.T) {
	r := setupRouter()
	r.GET("/with", withIdentity("EMP002", domain.RoleEmployee), middleware.ExtractUserID(), func(c *gin.Context) {
		assert.Equal(t, "EMP002", c.GetString(middleware.KeyUserIDValidated))
		ok(c)
	})
	r.GET("/without", middleware.ExtractUserID(), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/with", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/without", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACAuthorize(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(req domain.EnforceRequest) (bool, error) {
			assert.Equal(t, "EMP001", req.Subject)
			assert.Equal(t, domain.RoleHR, req.Role)
			assert.Equal(t, "approval", req.Resource)
			assert.Equal(t, "resolve", req.Action)
			return true, nil
		}}
		r := setupRouter()
		r.PUT("/x", withIdentity("EMP001", domain.RoleHR), middleware.RBACAuthorize(svc, "approval", "resolve"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(req domain.EnforceRequest) (bool, error) { return false, nil }}
		r := setupRouter()
		r.PUT("/x", withIdentity("EMP002", domain.RoleEmployee), middleware.RBACAuthorize(svc, "approval", "resolve"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "approval:resolve")
	})

	t.Run("missing identity", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(req domain.EnforceRequest) (bool, error) {
			t.Fatal("enforce should not be called")
			return false, nil
		}}
		r := setupRouter()
		r.PUT("/x", middleware.RBACAuthorize(svc, "approval", "resolve"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(req domain.EnforceRequest) (bool, error) { return false, errors.New("boom") }}
		r := setupRouter()
		r.PUT("/x", withIdentity("EMP001", domain.RoleHR), middleware.RBACAuthorize(svc, "approval", "resolve"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	r := setupRouter()
	r.GET("/x", withIdentity("EMP001", domain.RoleEmployee), middleware.RateLimitByUser(0.001, 1), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRateLimitByIP(t *testing.T) {
	r := setupRouter()
	r.GET("/x", middleware.RateLimitByIP(0.001, 2), ok)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestIdempotency(t *testing.T) {
	const cacheKey = "idemp:/api/tickets:EMP001:key-1"

	newRouter := func(t *testing.T, mw gin.HandlerFunc) *gin.Engine {
		r := setupRouter()
		r.POST("/api/tickets",
			withIdentity("EMP001", domain.RoleEmployee),
			middleware.ExtractUserID(),
			mw,
			func(c *gin.Context) {
				t.Fatal("handler should not run")
			},
		)
		return r
	}

	t.Run("replays cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"status":"success","data":{"id":"TKT-101"}}}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tickets", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		newRouter(t, middleware.Idempotency(rdb)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.Contains(t, w.Body.String(), "TKT-101")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects duplicate in flight", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tickets", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		newRouter(t, middleware.Idempotency(rdb)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores requests without a key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := setupRouter()
		r.POST("/api/tickets", middleware.Idempotency(rdb), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tickets", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestID(t *testing.T) {
	r := setupRouter()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
		assert.Equal(t, "rid-1", contextutil.GetRequestID(c.Request.Context()))
		ok(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
}

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hr-portal/internal/auth"
	autherrors "hr-portal/internal/auth/errors"
	"hr-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	LoginFn  func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	SignupFn func(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error)
	LogoutFn func(ctx context.Context, tokenID string, ttl time.Duration) error
	MeFn     func(ctx context.Context, userID string) (auth.MeResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return f.LoginFn(ctx, req)
}
func (f *fakeAuthService) Signup(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
	return f.SignupFn(ctx, req)
}
func (f *fakeAuthService) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	return f.LogoutFn(ctx, tokenID, ttl)
}
func (f *fakeAuthService) Me(ctx context.Context, userID string) (auth.MeResponse, error) {
	return f.MeFn(ctx, userID)
}

func postJSON(h gin.HandlerFunc, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	h(c)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns user_id and role", func(t *testing.T) {
		svc := &fakeAuthService{
			LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				assert.Equal(t, "HR", req.Role)
				return auth.LoginResponse{
					UserID:      "u-1",
					Role:        "HR",
					AccessToken: "tok",
					ExpiresAt:   time.Now().Add(time.Hour),
				}, nil
			},
		}
		h := auth.NewHandler(svc, false)

		w := postJSON(h.Login, "/api/auth/login",
			`{"email":"hr@example.com","password":"secret1","role":"HR"}`,
			map[string]string{"X-Client-Type": "web"},
		)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
		assert.Contains(t, w.Body.String(), `"role":"HR"`)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=tok")
	})

	t.Run("cli client gets no cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				return auth.LoginResponse{UserID: "u-1", Role: "HR", AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		}

		w := postJSON(auth.NewHandler(svc, false).Login, "/api/auth/login",
			`{"email":"hr@example.com","password":"secret1","role":"HR"}`,
			map[string]string{"X-Client-Type": "cli"},
		)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("role mismatch is 403", func(t *testing.T) {
		svc := &fakeAuthService{
			LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				return auth.LoginResponse{}, autherrors.ErrRoleMismatch
			},
		}

		w := postJSON(auth.NewHandler(svc, false).Login, "/api/auth/login",
			`{"email":"emp@example.com","password":"secret1","role":"HR"}`, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ROLE_MISMATCH")
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("missing role is a validation error", func(t *testing.T) {
		w := postJSON(auth.NewHandler(&fakeAuthService{}, false).Login, "/api/auth/login",
			`{"email":"emp@example.com","password":"secret1"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &fakeAuthService{
		SignupFn: func(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
			assert.Equal(t, "Ravi", req.Name)
			return auth.SignupResponse{UserID: "u-2"}, nil
		},
	}

	w := postJSON(auth.NewHandler(svc, false).Signup, "/api/auth/signup",
		`{"name":"Ravi","email":"ravi@example.com","password":"secret1","role":"EMPLOYEE"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-2"`)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{
		LogoutFn: func(ctx context.Context, tokenID string, ttl time.Duration) error {
			assert.Equal(t, "jti-1", tokenID)
			assert.Greater(t, ttl, time.Duration(0))
			return nil
		},
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	c.Set(middleware.KeyTokenID, "jti-1")
	c.Set(middleware.KeyTokenExp, time.Now().Add(30*time.Minute))

	auth.NewHandler(svc, false).Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=;")
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &fakeAuthService{
		MeFn: func(ctx context.Context, userID string) (auth.MeResponse, error) {
			assert.Equal(t, "u-1", userID)
			return auth.MeResponse{UserID: userID, Name: "Asha", Role: "HR"}, nil
		},
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(middleware.KeyUserID, "u-1")

	auth.NewHandler(svc, false).Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha")
}

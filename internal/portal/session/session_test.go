package session_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	loginFn  func(ctx context.Context, email, password string, role domain.Role) (gateway.LoginResult, error)
	signupFn func(ctx context.Context, req gateway.SignupRequest) (string, error)
	logoutFn func(ctx context.Context) error
	token    string
}

func (f *fakeGateway) Login(ctx context.Context, email, password string, role domain.Role) (gateway.LoginResult, error) {
	return f.loginFn(ctx, email, password, role)
}

func (f *fakeGateway) Signup(ctx context.Context, req gateway.SignupRequest) (string, error) {
	return f.signupFn(ctx, req)
}

func (f *fakeGateway) Logout(ctx context.Context) error {
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx)
}

func (f *fakeGateway) SetToken(token string) { f.token = token }

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func okLogin(_ context.Context, _, _ string, role domain.Role) (gateway.LoginResult, error) {
	return gateway.LoginResult{
		UserID:      "u-1",
		Role:        role,
		Name:        "Asha",
		AccessToken: "tok",
		ExpiresAt:   now.Add(time.Hour),
	}, nil
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("empty store shows role selection", func(t *testing.T) {
		r := session.NewResolver(&fakeGateway{}, session.NewMemoryStore()).WithClock(func() time.Time { return now })

		state, sess, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, session.StateRoleSelection, state)
		assert.Empty(t, sess.UserID)
	})

	t.Run("stored session goes to dashboard", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(session.Session{UserID: "u-1", Role: domain.RoleEmployee, Token: "tok", ExpiresAt: now.Add(time.Minute)}))
		gw := &fakeGateway{}
		r := session.NewResolver(gw, store).WithClock(func() time.Time { return now })

		state, sess, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, session.StateDashboard, state)
		assert.Equal(t, domain.RoleEmployee, sess.Role)
		assert.Equal(t, "tok", gw.token)
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(session.Session{UserID: "u-1", Role: domain.RoleHR, Token: "tok", ExpiresAt: now.Add(-time.Minute)}))
		r := session.NewResolver(&fakeGateway{}, store).WithClock(func() time.Time { return now })

		state, _, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, session.StateRoleSelection, state)
		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestResolver_Login(t *testing.T) {
	t.Run("success persists the session", func(t *testing.T) {
		store := session.NewMemoryStore()
		gw := &fakeGateway{loginFn: okLogin}
		r := session.NewResolver(gw, store)

		sess, err := r.Login(context.Background(), "asha@corp.test", "secret", domain.RoleHR)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleHR, sess.Role)
		assert.Equal(t, "tok", gw.token)

		stored, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, sess, stored)
	})

	t.Run("role mismatch persists nothing", func(t *testing.T) {
		store := session.NewMemoryStore()
		gw := &fakeGateway{loginFn: func(context.Context, string, string, domain.Role) (gateway.LoginResult, error) {
			return gateway.LoginResult{}, &gateway.APIError{Status: http.StatusForbidden, Code: "ROLE_MISMATCH"}
		}}
		r := session.NewResolver(gw, store)

		_, err := r.Login(context.Background(), "ravi@corp.test", "secret", domain.RoleHR)
		assert.ErrorIs(t, err, session.ErrAuthorization)
		assert.ErrorIs(t, err, gateway.ErrForbidden)

		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.Empty(t, gw.token)
	})

	t.Run("unreachable backend persists nothing", func(t *testing.T) {
		store := session.NewMemoryStore()
		gw := &fakeGateway{loginFn: func(context.Context, string, string, domain.Role) (gateway.LoginResult, error) {
			return gateway.LoginResult{}, gateway.ErrUnreachable
		}}
		r := session.NewResolver(gw, store)

		_, err := r.Login(context.Background(), "ravi@corp.test", "secret", domain.RoleEmployee)
		assert.ErrorIs(t, err, gateway.ErrUnreachable)
		assert.NotErrorIs(t, err, session.ErrAuthorization)

		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestResolver_Signup(t *testing.T) {
	var signed gateway.SignupRequest
	store := session.NewMemoryStore()
	gw := &fakeGateway{
		signupFn: func(_ context.Context, req gateway.SignupRequest) (string, error) {
			signed = req
			return "u-1", nil
		},
		loginFn: okLogin,
	}
	r := session.NewResolver(gw, store)

	sess, err := r.Signup(context.Background(), "Ravi", "ravi@corp.test", "secret", domain.RoleEmployee, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", signed.Department)
	assert.Equal(t, domain.RoleEmployee, sess.Role)
}

func TestResolver_LogoutThenResolve(t *testing.T) {
	store := session.NewMemoryStore()
	gw := &fakeGateway{
		loginFn:  okLogin,
		logoutFn: func(context.Context) error { return gateway.ErrUnreachable },
	}
	r := session.NewResolver(gw, store).WithClock(func() time.Time { return now })

	_, err := r.Login(context.Background(), "asha@corp.test", "secret", domain.RoleHR)
	require.NoError(t, err)

	require.NoError(t, r.Logout(context.Background()))
	assert.Empty(t, gw.token)

	state, _, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateRoleSelection, state)
}

func TestResolver_HandleAuthFailure(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Session{UserID: "u-1", Role: domain.RoleHR, Token: "tok"}))
	r := session.NewResolver(&fakeGateway{}, store)

	assert.False(t, r.HandleAuthFailure(errors.New("boom")))
	_, err := store.Load()
	require.NoError(t, err)

	assert.False(t, r.HandleAuthFailure(&gateway.APIError{Status: http.StatusForbidden, Code: "FORBIDDEN"}))
	_, err = store.Load()
	require.NoError(t, err, "a resource-level 403 keeps the session")

	assert.True(t, r.HandleAuthFailure(&gateway.APIError{Status: http.StatusUnauthorized}))
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := session.NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	want := session.Session{UserID: "u-1", Role: domain.RoleEmployee, Name: "Ravi", Token: "tok", ExpiresAt: now}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want.UserID, got.UserID)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

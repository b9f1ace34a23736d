package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"

	"go.uber.org/zap"
)

// ErrAuthorization wraps a login refused for the chosen role.
var ErrAuthorization = errors.New("not authorized for this role")

// State is what the portal shows after resolving the stored session.
type State int

const (
	StateRoleSelection State = iota
	StateDashboard
)

func (s State) String() string {
	if s == StateDashboard {
		return "dashboard"
	}
	return "role-selection"
}

// AuthGateway is the slice of the gateway the resolver needs.
type AuthGateway interface {
	Login(ctx context.Context, email, password string, role domain.Role) (gateway.LoginResult, error)
	Signup(ctx context.Context, req gateway.SignupRequest) (string, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

type Resolver struct {
	gw     AuthGateway
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

func NewResolver(gw AuthGateway, store Store, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("portal.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("portal.session")
	}
	return &Resolver{gw: gw, store: store, now: time.Now, logger: l}
}

// WithClock replaces the time source used for expiry checks.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve loads the stored session. Without a usable one the caller gets
// StateRoleSelection and a zero Session.
func (r *Resolver) Resolve(ctx context.Context) (State, Session, error) {
	sess, err := r.store.Load()
	if errors.Is(err, ErrNoSession) {
		return StateRoleSelection, Session{}, nil
	}
	if err != nil {
		r.logger.Warn("stored session unreadable, discarding", zap.Error(err))
		_ = r.store.Clear()
		return StateRoleSelection, Session{}, nil
	}

	if !sess.Valid(r.now()) {
		r.logger.Info("stored session expired", zap.String("user_id", sess.UserID))
		if err := r.store.Clear(); err != nil {
			return StateRoleSelection, Session{}, err
		}
		return StateRoleSelection, Session{}, nil
	}

	r.gw.SetToken(sess.Token)
	return StateDashboard, sess, nil
}

// Login authenticates with the chosen role. Nothing is persisted unless the
// backend accepts the credentials for that role.
func (r *Resolver) Login(ctx context.Context, email, password string, role domain.Role) (Session, error) {
	if !role.Valid() {
		return Session{}, fmt.Errorf("unknown role %q", role)
	}

	res, err := r.gw.Login(ctx, email, password, role)
	if err != nil {
		if errors.Is(err, gateway.ErrForbidden) {
			return Session{}, fmt.Errorf("%w: %w", ErrAuthorization, err)
		}
		return Session{}, err
	}

	sess := Session{
		UserID:    res.UserID,
		Role:      res.Role,
		Name:      res.Name,
		Token:     res.AccessToken,
		ExpiresAt: res.ExpiresAt,
	}
	if err := r.store.Save(sess); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	r.gw.SetToken(sess.Token)

	r.logger.Info("logged in", zap.String("user_id", sess.UserID), zap.String("role", sess.Role.String()))
	return sess, nil
}

// Signup registers the account and then logs in with it.
func (r *Resolver) Signup(ctx context.Context, name, email, password string, role domain.Role, department string) (Session, error) {
	if !role.Valid() {
		return Session{}, fmt.Errorf("unknown role %q", role)
	}

	if _, err := r.gw.Signup(ctx, gateway.SignupRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       role,
		Department: department,
	}); err != nil {
		return Session{}, err
	}
	return r.Login(ctx, email, password, role)
}

// Logout revokes the token when the backend is reachable and always clears
// the local session.
func (r *Resolver) Logout(ctx context.Context) error {
	if err := r.gw.Logout(ctx); err != nil {
		r.logger.Warn("server logout failed", zap.Error(err))
	}
	r.gw.SetToken("")
	return r.store.Clear()
}

// HandleAuthFailure clears the session when err is a 401 or 403 and reports
// whether it did, so the caller can return to login.
func (r *Resolver) HandleAuthFailure(err error) bool {
	if !gateway.IsAuthFailure(err) {
		return false
	}
	r.gw.SetToken("")
	if cerr := r.store.Clear(); cerr != nil {
		r.logger.Error("clear session", zap.Error(cerr))
	}
	return true
}

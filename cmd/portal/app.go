package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hr-portal/internal/bootstrap"
	"hr-portal/internal/config"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/session"
	"hr-portal/internal/portal/view"

	"go.uber.org/zap"
)

const chatUnreachable = "Error: Could not connect to the HR Brain. Make sure the backend is running!"

var (
	errChatUnreachable = errors.New("chat backend unreachable")
	errNotLoggedIn     = errors.New("not logged in: run `portal login --role hr|employee`")
	errSessionEnded    = errors.New("session expired or revoked, please log in again")
)

type options struct {
	configFile  string
	baseURL     string
	sessionFile string
	logLevel    string
}

// portal is the per-invocation client state.
type portal struct {
	out      io.Writer
	cfg      *config.Config
	logger   *zap.Logger
	client   *gateway.Client
	resolver *session.Resolver
}

func newPortal(out io.Writer, opts options) (*portal, error) {
	cfg, err := config.LoadClient(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.Portal.BaseURL = opts.baseURL
	}
	if opts.sessionFile != "" {
		cfg.Portal.SessionFile = opts.sessionFile
	}

	logger, err := bootstrap.NewLogger(cfg.AppEnv, opts.logLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	store, err := session.NewFileStore(cfg.Portal.SessionFile)
	if err != nil {
		return nil, err
	}

	client := gateway.New(cfg.Portal.BaseURL, gateway.WithTimeout(cfg.Portal.Timeout))
	return &portal{
		out:      out,
		cfg:      cfg,
		logger:   logger,
		client:   client,
		resolver: session.NewResolver(client, store, logger),
	}, nil
}

// requireSession resolves the stored session and fails when the user has to
// pick a role and log in first.
func (p *portal) requireSession(ctx context.Context) (session.Session, *view.Router, error) {
	state, sess, err := p.resolver.Resolve(ctx)
	if err != nil {
		return session.Session{}, nil, err
	}
	if state != session.StateDashboard {
		return session.Session{}, nil, errNotLoggedIn
	}
	return sess, view.New(sess.Role), nil
}

// check drops the local session on 401, or on a 403 that rejects the role
// itself, so the next command starts at login.
func (p *portal) check(err error) error {
	if err == nil {
		return nil
	}
	if p.resolver.HandleAuthFailure(err) {
		p.logger.Info("session cleared after auth failure", zap.Error(err))
		return fmt.Errorf("%w: %w", errSessionEnded, err)
	}
	return err
}

func (p *portal) close() {
	_ = p.logger.Sync()
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, errChatUnreachable):
		return chatUnreachable
	case errors.Is(err, gateway.ErrUnreachable):
		return "Error: cannot reach backend"
	case errors.Is(err, session.ErrAuthorization):
		return "Error: these credentials are not valid for the selected role"
	}
	return "Error: " + err.Error()
}

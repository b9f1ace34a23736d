package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	autherrors "hr-portal/internal/auth/errors"
	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/token"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
	Logout(ctx context.Context, tokenID string, ttl time.Duration) error
	Me(ctx context.Context, userID string) (MeResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	tokens    *token.Manager
	blacklist token.Blacklist
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	tokens *token.Manager,
	blacklist token.Blacklist,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		tokens:    tokens,
		blacklist: blacklist,
		rdb:       rdb,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidRole
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if domain.Role(user.Role) != role {
		s.logger.Warn("login role mismatch",
			zap.String("request_id", rid),
			zap.String("user_id", user.ID.String()),
			zap.String("requested_role", string(role)),
		)
		return LoginResponse{}, autherrors.ErrRoleMismatch
	}

	empl, err := s.employees.FindByID(ctx, user.ID.String())
	if err != nil {
		s.logger.Error("login employee lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return LoginResponse{}, err
	}

	accessToken, claims, err := s.tokens.Issue(user.ID.String(), role, empl.Name)
	if err != nil {
		s.logger.Error("login issue token failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed.WithCause(err)
	}

	s.logger.Info("login success",
		zap.String("request_id", rid),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)

	return LoginResponse{
		UserID:      user.ID.String(),
		Role:        string(role),
		Name:        empl.Name,
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return SignupResponse{}, autherrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return SignupResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("signup begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SignupResponse{}, err
	}
	defer tx.Rollback()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	id := uuid.New()

	empl := &employee.Employee{
		ID:               id,
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Role:             string(role),
		Department:       strings.TrimSpace(req.Department),
		Presence:         employee.PresenceActive,
		CasualBalance:    domain.DefaultCasualDays,
		SickBalance:      domain.DefaultSickDays,
		PrivilegeBalance: domain.DefaultPrivilegeDays,
	}
	if err := s.employees.WithTx(tx).Create(ctx, empl); err != nil {
		s.logger.Warn("signup create employee failed", zap.String("request_id", rid), zap.Error(err))
		return SignupResponse{}, mapSignupError(err)
	}

	user := &User{
		ID:       id,
		Email:    email,
		Password: string(hashed),
		Role:     string(role),
	}
	if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
		s.logger.Warn("signup create user failed", zap.String("request_id", rid), zap.Error(err))
		return SignupResponse{}, mapSignupError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("signup commit failed", zap.String("request_id", rid), zap.Error(err))
		return SignupResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, employee.DirectoryCacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate employee directory cache", zap.Error(err))
		}
	}

	s.logger.Info("signup success",
		zap.String("request_id", rid),
		zap.String("user_id", id.String()),
		zap.String("role", string(role)),
	)
	return SignupResponse{UserID: id.String()}, nil
}

func (s *service) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.blacklist == nil || tokenID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, tokenID, ttl); err != nil {
		s.logger.Error("logout revoke failed", zap.String("token_id", tokenID), zap.Error(err))
		return err
	}
	s.logger.Info("logout success", zap.String("user_id", contextutil.GetUserID(ctx)))
	return nil
}

func (s *service) Me(ctx context.Context, userID string) (MeResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, autherrors.ErrUserNotFound
		}
		return MeResponse{}, err
	}

	empl, err := s.employees.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, autherrors.ErrUserNotFound
		}
		return MeResponse{}, err
	}

	return MeResponse{
		UserID: u.ID.String(),
		Email:  u.Email,
		Name:   empl.Name,
		Role:   u.Role,
	}, nil
}

func mapSignupError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherrors.ErrEmailAlreadyRegistered
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return err
}

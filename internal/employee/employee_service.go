package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"hr-portal/internal/domain"
	employeeerrors "hr-portal/internal/employee/errors"
	"hr-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DirectoryCacheKey holds the cached employee directory. Anything that
// changes an employee row deletes it.
const DirectoryCacheKey = "employees:directory"

const directoryCacheTTL = time.Hour

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, id string, req UpdateProfileRequest) (EmployeeResponse, error)
	Export(ctx context.Context) ([]byte, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DirectoryCacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DirectoryCacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Error("get all employees failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, DirectoryCacheKey, jsonData, directoryCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee directory failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !actor.CanView(id) {
		return EmployeeResponse{}, employeeerrors.ErrNotOwner
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) UpdateProfile(
	ctx context.Context,
	actor domain.Actor,
	id string,
	req UpdateProfileRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update profile requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("actor_id", actor.UserID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !actor.CanView(id) {
		return EmployeeResponse{}, employeeerrors.ErrNotOwner
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return EmployeeResponse{}, employeeerrors.ErrBlankName
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	applyProfile(empl, req)

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update profile persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateDirectory(ctx)
	s.logger.Info("update profile success", zap.String("request_id", rid), zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Export(ctx context.Context) ([]byte, error) {
	rows, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		s.logger.Error("employee export failed", zap.Error(err))
		return nil, employeeerrors.ErrExportFailed.WithCause(err)
	}
	return data, nil
}

func (s *service) invalidateDirectory(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DirectoryCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee directory cache",
			zap.Error(err),
			zap.String("key", DirectoryCacheKey),
		)
	}
}

func applyProfile(empl *Employee, req UpdateProfileRequest) {
	if req.Name != nil {
		empl.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		empl.Department = strings.TrimSpace(*req.Department)
	}
	if req.Designation != nil {
		empl.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Phone != nil {
		empl.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Presence != nil {
		empl.Presence = *req.Presence
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          empl.ID.String(),
		Name:        empl.Name,
		Email:       empl.Email,
		Role:        empl.Role,
		Department:  empl.Department,
		Designation: empl.Designation,
		Phone:       empl.Phone,
		Presence:    empl.Presence,
		LeaveBalance: LeaveBalance{
			Casual:    empl.CasualBalance,
			Sick:      empl.SickBalance,
			Privilege: empl.PrivilegeBalance,
		},
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(empls))
	for _, e := range empls {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}

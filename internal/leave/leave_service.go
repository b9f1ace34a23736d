package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	employeeerrors "hr-portal/internal/employee/errors"
	"hr-portal/internal/events"
	leaveerrors "hr-portal/internal/leave/errors"
	"hr-portal/internal/messaging/kafka"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/resolve"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error)
	Resolve(ctx context.Context, actor domain.Actor, id string, req ResolveRequest) (LeaveResponse, error)
	RefundRejected(ctx context.Context, id string) error
	ApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		rdb:       rdb,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.UserID),
		zap.String("type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.Int("days", req.Days),
	)

	leaveType, startDate, endDate, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	employeeID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", actor.UserID),
			zap.String("start_date", req.StartDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if err := s.employees.WithTx(tx).DeductBalance(ctx, actor.UserID, leaveType, req.Days); err != nil {
		if errors.Is(err, employeeerrors.ErrInsufficientBalance) {
			s.logger.Info("create leave denied, insufficient balance",
				zap.String("employee_id", actor.UserID),
				zap.String("type", string(leaveType)),
				zap.Int("days", req.Days),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
		s.logger.Error("create leave deduct balance failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  string(leaveType),
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       req.Days,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     string(domain.StatusPending),
		Version:    1,
		CreatedAt:  s.now(),
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateDirectory(ctx)
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error) {
	filter := ListFilter{Viewer: actor}
	if status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, leaveerrors.ErrInvalidStatusFilter
		}
		filter.Status = parsed
	}

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Resolve(ctx context.Context, actor domain.Actor, id string, req ResolveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("resolve leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", req.Status),
	)

	if !actor.IsHR() {
		return LeaveResponse{}, leaveerrors.ErrResolveForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	target, err := resolve.Target(req.Status)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resolve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rows, err := qtx.Resolve(ctx, id, target, actor.UserID, req.Version)
	if err != nil {
		s.logger.Error("resolve leave update failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if rows == 0 {
		conflict := resolve.Conflict(domain.Status(l.Status))
		s.logger.Warn("resolve leave conflict",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
			zap.Int("current_version", l.Version),
			zap.Error(conflict),
		)
		return LeaveResponse{}, conflict
	}

	if s.outbox != nil {
		outboxEvent, err := kafka.ResolvedEvent(events.RequestResolvedEvent{
			EventType:   events.RequestResolvedEventType,
			RequestID:   rid,
			Kind:        events.KindLeave,
			ItemID:      id,
			RequesterID: l.EmployeeID.String(),
			ResolvedBy:  actor.UserID,
			Status:      l.Status,
			Version:     l.Version,
			OccurredAt:  s.now().UTC(),
		})
		if err != nil {
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("resolve leave outbox persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("resolve leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("resolve leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("resolved_by", actor.UserID),
	)
	return mapToResponse(*l), nil
}

// RefundRejected is idempotent: only the first call for a rejected leave
// returns the days to the employee.
func (s *service) RefundRejected(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("refund skipped, leave not found", zap.String("leave_id", id))
			return nil
		}
		return err
	}

	rows, err := qtx.MarkRefunded(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.logger.Debug("refund skipped", zap.String("leave_id", id), zap.String("status", l.Status))
		return nil
	}

	leaveType, err := domain.ParseLeaveType(l.LeaveType)
	if err != nil {
		return err
	}
	if err := s.employees.WithTx(tx).RefundBalance(ctx, l.EmployeeID.String(), leaveType, l.Days); err != nil {
		s.logger.Error("refund balance failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateDirectory(ctx)
	s.logger.Info("leave balance refunded",
		zap.String("leave_id", id),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.Int("days", l.Days),
	)
	return nil
}

func (s *service) ApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindApprovedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) invalidateDirectory(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, employee.DirectoryCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee directory cache", zap.Error(err))
	}
}

func validateCreateRequest(req CreateLeaveRequest) (domain.LeaveType, time.Time, time.Time, error) {
	leaveType, err := domain.ParseLeaveType(req.LeaveType)
	if err != nil {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}

	endDate := startDate.AddDate(0, 0, req.Days-1)
	if req.EndDate != "" {
		endDate, err = time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
		}
	}
	if endDate.Before(startDate) {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	// Days is what gets deducted, so it must cover the booked period exactly.
	if spanDays(startDate, endDate) != req.Days {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}

	return leaveType, startDate, endDate, nil
}

// spanDays counts calendar days from start to end inclusive.
func spanDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		Days:       l.Days,
		Reason:     l.Reason,
		Status:     l.Status,
		Version:    l.Version,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.ResolvedBy != nil {
		v := l.ResolvedBy.String()
		resp.ResolvedBy = &v
	}
	if l.ResolvedAt != nil {
		v := l.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resp = append(resp, mapToResponse(l))
	}
	return resp
}

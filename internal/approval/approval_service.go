package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	approvalerrors "hr-portal/internal/approval/errors"
	"hr-portal/internal/domain"
	"hr-portal/internal/events"
	"hr-portal/internal/messaging/kafka"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/counter"
	"hr-portal/internal/shared/resolve"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateApprovalRequest) (ApprovalResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, status string) ([]ApprovalResponse, error)
	Resolve(ctx context.Context, actor domain.Actor, trxID string, req ResolveRequest) (ApprovalResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counters counter.Repository
	outbox   kafka.OutboxRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counters: counters,
		outbox:   outbox,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateApprovalRequest) (ApprovalResponse, error) {
	employeeID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ApprovalResponse{}, apperror.ErrUnauthorized
	}

	next, err := s.counters.GetNextValue(ctx, counter.TypeApproval)
	if err != nil {
		s.logger.Error("create approval counter failed", zap.Error(err))
		return ApprovalResponse{}, err
	}

	a := &Approval{
		TrxID:      fmt.Sprintf("%s%d", IDPrefix, next),
		EmployeeID: employeeID,
		Category:   strings.TrimSpace(req.Category),
		Details:    strings.TrimSpace(req.Details),
		Amount:     req.Amount,
		Status:     string(domain.StatusPending),
		Version:    1,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create approval persist failed", zap.String("trx_id", a.TrxID), zap.Error(err))
		return ApprovalResponse{}, err
	}

	s.logger.Info("approval raised",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("trx_id", a.TrxID),
		zap.String("category", a.Category),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor, status string) ([]ApprovalResponse, error) {
	filter := ListFilter{Viewer: actor}
	if status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, approvalerrors.ErrInvalidStatusFilter
		}
		filter.Status = parsed
	}

	approvals, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		resp = append(resp, mapToResponse(a))
	}
	return resp, nil
}

func (s *service) Resolve(ctx context.Context, actor domain.Actor, trxID string, req ResolveRequest) (ApprovalResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.IsHR() {
		return ApprovalResponse{}, approvalerrors.ErrResolveForbidden
	}

	target, err := resolve.Target(req.Status)
	if err != nil {
		return ApprovalResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ApprovalResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rows, err := qtx.Resolve(ctx, trxID, target, actor.UserID, req.Version)
	if err != nil {
		s.logger.Error("resolve approval update failed", zap.String("trx_id", trxID), zap.Error(err))
		return ApprovalResponse{}, err
	}

	a, err := qtx.FindByID(ctx, trxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, approvalerrors.ErrApprovalNotFound
		}
		return ApprovalResponse{}, err
	}
	if rows == 0 {
		return ApprovalResponse{}, resolve.Conflict(domain.Status(a.Status))
	}

	if s.outbox != nil {
		ev, err := kafka.ResolvedEvent(events.RequestResolvedEvent{
			EventType:   events.RequestResolvedEventType,
			RequestID:   rid,
			Kind:        events.KindApproval,
			ItemID:      trxID,
			RequesterID: a.EmployeeID.String(),
			ResolvedBy:  actor.UserID,
			Status:      a.Status,
			Version:     a.Version,
			OccurredAt:  s.now().UTC(),
		})
		if err != nil {
			return ApprovalResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, ev); err != nil {
			return ApprovalResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ApprovalResponse{}, err
	}

	s.logger.Info("approval resolved",
		zap.String("request_id", rid),
		zap.String("trx_id", trxID),
		zap.String("status", a.Status),
	)
	return mapToResponse(*a), nil
}

func mapToResponse(a Approval) ApprovalResponse {
	resp := ApprovalResponse{
		TrxID:      a.TrxID,
		EmployeeID: a.EmployeeID.String(),
		Category:   a.Category,
		Details:    a.Details,
		Amount:     a.Amount,
		Status:     a.Status,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.ResolvedBy != nil {
		v := a.ResolvedBy.String()
		resp.ResolvedBy = &v
	}
	if a.ResolvedAt != nil {
		v := a.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}

package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/events"
	"hr-portal/internal/messaging/kafka"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/counter"
	"hr-portal/internal/shared/resolve"
	ticketerrors "hr-portal/internal/ticket/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=ticket_service.go -destination=mock/ticket_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateTicketRequest) (TicketResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, status string) ([]TicketResponse, error)
	Resolve(ctx context.Context, actor domain.Actor, id string, req ResolveRequest) (TicketResponse, error)
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
	l := zap.L().Named("ticket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ticket.service")
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

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateTicketRequest) (TicketResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	employeeID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return TicketResponse{}, apperror.ErrUnauthorized
	}

	next, err := s.counters.GetNextValue(ctx, counter.TypeTicket)
	if err != nil {
		s.logger.Error("create ticket counter failed", zap.String("request_id", rid), zap.Error(err))
		return TicketResponse{}, err
	}

	t := &Ticket{
		ID:         fmt.Sprintf("%s%d", IDPrefix, next),
		EmployeeID: employeeID,
		Category:   req.Category,
		Details:    strings.TrimSpace(req.Details),
		Status:     string(domain.StatusPending),
		Version:    1,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create ticket persist failed", zap.String("ticket_id", t.ID), zap.Error(err))
		return TicketResponse{}, err
	}

	s.logger.Info("ticket raised",
		zap.String("request_id", rid),
		zap.String("ticket_id", t.ID),
		zap.String("category", t.Category),
		zap.String("employee_id", actor.UserID),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor, status string) ([]TicketResponse, error) {
	filter := ListFilter{Viewer: actor}
	if status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, ticketerrors.ErrInvalidStatusFilter
		}
		filter.Status = parsed
	}

	tickets, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list tickets failed", zap.Error(err))
		return nil, err
	}

	resp := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, mapToResponse(t))
	}
	return resp, nil
}

func (s *service) Resolve(ctx context.Context, actor domain.Actor, id string, req ResolveRequest) (TicketResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.IsHR() {
		return TicketResponse{}, ticketerrors.ErrResolveForbidden
	}

	target, err := resolve.Target(req.Status)
	if err != nil {
		return TicketResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TicketResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rows, err := qtx.Resolve(ctx, id, target, actor.UserID, req.Version)
	if err != nil {
		s.logger.Error("resolve ticket update failed", zap.String("ticket_id", id), zap.Error(err))
		return TicketResponse{}, err
	}

	t, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketResponse{}, ticketerrors.ErrTicketNotFound
		}
		return TicketResponse{}, err
	}
	if rows == 0 {
		conflict := resolve.Conflict(domain.Status(t.Status))
		s.logger.Warn("resolve ticket conflict",
			zap.String("ticket_id", id),
			zap.String("current_status", t.Status),
			zap.Error(conflict),
		)
		return TicketResponse{}, conflict
	}

	if s.outbox != nil {
		ev, err := kafka.ResolvedEvent(events.RequestResolvedEvent{
			EventType:   events.RequestResolvedEventType,
			RequestID:   rid,
			Kind:        events.KindTicket,
			ItemID:      id,
			RequesterID: t.EmployeeID.String(),
			ResolvedBy:  actor.UserID,
			Status:      t.Status,
			Version:     t.Version,
			OccurredAt:  s.now().UTC(),
		})
		if err != nil {
			return TicketResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, ev); err != nil {
			return TicketResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("ticket resolved",
		zap.String("request_id", rid),
		zap.String("ticket_id", id),
		zap.String("status", t.Status),
	)
	return mapToResponse(*t), nil
}

func mapToResponse(t Ticket) TicketResponse {
	resp := TicketResponse{
		ID:         t.ID,
		EmployeeID: t.EmployeeID.String(),
		Category:   t.Category,
		Details:    t.Details,
		Status:     t.Status,
		Version:    t.Version,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
	if t.ResolvedBy != nil {
		v := t.ResolvedBy.String()
		resp.ResolvedBy = &v
	}
	if t.ResolvedAt != nil {
		v := t.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}

package chat

import (
	"context"
	"errors"
	"strings"

	chaterrors "hr-portal/internal/chat/errors"
	"hr-portal/internal/domain"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Service interface {
	Chat(ctx context.Context, actor domain.Actor, req ChatRequest) (ChatResponse, error)
}

type service struct {
	assistant Assistant
	logger    *zap.Logger
}

func NewService(assistant Assistant, logger ...*zap.Logger) Service {
	l := zap.L().Named("chat.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.service")
	}
	return &service{assistant: assistant, logger: l}
}

// Chat answers on behalf of req.EmployeeID, which defaults to the caller.
// Only HR may ask about someone else.
func (s *service) Chat(ctx context.Context, actor domain.Actor, req ChatRequest) (ChatResponse, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return ChatResponse{}, chaterrors.ErrEmptyMessage
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		employeeID = actor.UserID
	}
	if employeeID != actor.UserID && !actor.IsHR() {
		return ChatResponse{}, chaterrors.ErrNotOwner
	}

	s.logger.Debug("chat turn",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", employeeID),
		zap.Int("message_len", len(msg)),
	)

	reply, err := s.assistant.Reply(ctx, actor, employeeID, msg)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return ChatResponse{}, err
		}
		s.logger.Error("assistant failed", zap.String("employee_id", employeeID), zap.Error(err))
		return ChatResponse{}, chaterrors.ErrAssistantUnavailable
	}

	return ChatResponse{Response: reply}, nil
}

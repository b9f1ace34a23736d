package consumer

import (
	"context"
	"encoding/json"
	"time"

	"hr-portal/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// LeaveRefunder returns the days of a rejected leave to the requester.
// It must be safe to call more than once for the same leave.
type LeaveRefunder interface {
	RefundRejected(ctx context.Context, leaveID string) error
}

const maxRetryDelay = time.Minute

// ConsumeRequestResolved handles messages strictly in order. A message whose
// handling fails is retried with doubling delays, starting at retryDelay,
// and the next one is not fetched until it succeeds. Committing a later
// offset would otherwise skip it.
func ConsumeRequestResolved(
	ctx context.Context,
	reader MessageReader,
	refunder LeaveRefunder,
	logger *zap.Logger,
	retryDelay time.Duration,
) {
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	log := logger.Named("kafka.consumer.request_resolved")
	log.Info("request resolved consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request resolved consumer stopped")
				return
			}
			log.Error("fetch request resolved message failed", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, refunder, log, retryDelay) {
			log.Info("request resolved consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit request resolved message failed", zap.Error(err))
		}
	}
}

// handleWithRetry reports false when ctx ended before msg was handled.
func handleWithRetry(
	ctx context.Context,
	msg kafkago.Message,
	refunder LeaveRefunder,
	log *zap.Logger,
	delay time.Duration,
) bool {
	for attempt := 1; ; attempt++ {
		err := handleRequestResolved(ctx, msg, refunder, log)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		log.Warn("request resolved message will be retried",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// handleRequestResolved returns an error only for failures worth retrying.
func handleRequestResolved(
	ctx context.Context,
	msg kafkago.Message,
	refunder LeaveRefunder,
	log *zap.Logger,
) error {
	var event events.RequestResolvedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode request resolved event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	if event.Kind != events.KindLeave || event.Status != "Rejected" {
		log.Debug("request resolved event ignored",
			zap.String("kind", string(event.Kind)),
			zap.String("item_id", event.ItemID),
			zap.String("status", event.Status),
		)
		return nil
	}

	if err := refunder.RefundRejected(ctx, event.ItemID); err != nil {
		log.Error("refund rejected leave failed",
			zap.String("request_id", event.RequestID),
			zap.String("leave_id", event.ItemID),
			zap.Error(err),
		)
		return err
	}

	log.Info("rejected leave refunded",
		zap.String("request_id", event.RequestID),
		zap.String("leave_id", event.ItemID),
		zap.String("requester_id", event.RequesterID),
	)
	return nil
}

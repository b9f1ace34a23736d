package kafka

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/events"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead rows exhausted MaxDeliveryAttempts and are never polled again.
	OutboxStatusDead = "dead"
)

const MaxDeliveryAttempts = 8

// OutboxEvent is one row of outbox_events. AggregateID doubles as the Kafka
// key so every resolution of the same request lands on one partition.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// ResolvedEvent wraps a request_resolved payload into a pending outbox row.
func ResolvedEvent(ev events.RequestResolvedEvent) (OutboxEvent, error) {
	if ev.EventType == "" {
		ev.EventType = events.RequestResolvedEventType
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s %s resolution: %w", ev.Kind, ev.ItemID, err)
	}
	return OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     ev.RequestID,
		AggregateType: string(ev.Kind),
		AggregateID:   ev.ItemID,
		EventType:     ev.EventType,
		Topic:         events.RequestResolvedTopic,
		Payload:       data,
		Status:        OutboxStatusPending,
	}, nil
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

const (
	insertEventSQL = `INSERT INTO outbox_events
	(id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectDueSQL = `SELECT id::text, request_id, aggregate_type, aggregate_id, event_type, topic,
	payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2) AND COALESCE(next_retry_at, created_at) <= NOW()
ORDER BY created_at
LIMIT $3`

	markSentSQL = `UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

	// Backoff doubles from 5s and tops out at 10 minutes.
	markFailedSQL = `UPDATE outbox_events
SET retry_count = retry_count + 1,
	status = CASE WHEN retry_count + 1 >= $4 THEN $5 ELSE $2 END,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + LEAST(POWER(2, retry_count) * INTERVAL '5 seconds', INTERVAL '10 minutes'),
	updated_at = NOW()
WHERE id = $1`
)

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

// Create inserts through the bound transaction when there is one, so the row
// commits or rolls back together with the resolution it describes.
func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	var exec interface {
		ExecContext(context.Context, string, ...any) (sql.Result, error)
	} = r.db
	if r.tx != nil {
		exec = r.tx
	}

	_, err := exec.ExecContext(ctx, insertEventSQL,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectDueSQL, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		err := rows.Scan(&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt)
		if err != nil {
			return nil, err
		}
		due = append(due, e)
	}
	return due, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, markSentSQL, id, OutboxStatusSent)
	return err
}

// MarkFailed schedules a retry, or parks the row as dead once it has failed
// MaxDeliveryAttempts times.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.db.ExecContext(ctx, markFailedSQL,
		id, OutboxStatusFailed, reason, MaxDeliveryAttempts, OutboxStatusDead)
	return err
}

func ValidateOutboxEvent(event OutboxEvent) error {
	switch {
	case event.ID == "":
		return errors.New("outbox id is required")
	case event.Topic == "":
		return errors.New("outbox topic is required")
	case event.AggregateID == "":
		return errors.New("outbox aggregate id is required")
	case len(event.Payload) == 0:
		return errors.New("outbox payload is required")
	}

	switch events.RequestKind(event.AggregateType) {
	case events.KindLeave, events.KindTicket, events.KindApproval:
	default:
		return fmt.Errorf("unknown aggregate type %q", event.AggregateType)
	}

	if event.Status != OutboxStatusPending {
		return fmt.Errorf("new outbox rows must be %s, got %q", OutboxStatusPending, event.Status)
	}
	return nil
}

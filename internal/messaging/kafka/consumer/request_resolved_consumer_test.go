package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hr-portal/internal/events"
	"hr-portal/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeRefunder struct {
	calls    []string
	failures int
	err      error
	onCall   func(n int)
}

// RefundRejected fails the first f.failures calls with f.err.
func (f *fakeRefunder) RefundRejected(ctx context.Context, leaveID string) error {
	f.calls = append(f.calls, leaveID)
	if f.onCall != nil {
		f.onCall(len(f.calls))
	}
	if len(f.calls) <= f.failures {
		return f.err
	}
	return nil
}

func message(t *testing.T, offset int64, ev events.RequestResolvedEvent) kafkago.Message {
	t.Helper()
	ev.EventType = events.RequestResolvedEventType
	ev.OccurredAt = time.Now()
	data, err := json.Marshal(ev)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: data}
}

func TestConsumeRequestResolved(t *testing.T) {
	t.Run("refunds rejected leaves only", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message(t, 1, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-1", Status: "Rejected"}),
			message(t, 2, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-2", Status: "Approved"}),
			message(t, 3, events.RequestResolvedEvent{Kind: events.KindTicket, ItemID: "TKT-101", Status: "Rejected"}),
			{Offset: 4, Value: []byte("not json")},
		}}
		refunder := &fakeRefunder{}

		consumer.ConsumeRequestResolved(ctx, reader, refunder, zap.NewNop(), time.Millisecond)

		assert.Equal(t, []string{"l-1"}, refunder.calls)
		assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)
	})

	t.Run("failed refund is retried before the next message", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message(t, 1, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-A", Status: "Rejected"}),
			message(t, 2, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-B", Status: "Rejected"}),
		}}
		refunder := &fakeRefunder{failures: 1, err: errors.New("db down")}

		consumer.ConsumeRequestResolved(ctx, reader, refunder, zap.NewNop(), time.Millisecond)

		assert.Equal(t, []string{"l-A", "l-A", "l-B"}, refunder.calls)
		assert.Equal(t, []int64{1, 2}, reader.committed)
	})

	t.Run("shutdown during retry leaves message uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message(t, 7, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-9", Status: "Rejected"}),
			message(t, 8, events.RequestResolvedEvent{Kind: events.KindLeave, ItemID: "l-10", Status: "Rejected"}),
		}}
		refunder := &fakeRefunder{
			failures: 100,
			err:      errors.New("db down"),
			onCall: func(n int) {
				if n == 3 {
					cancel()
				}
			},
		}

		consumer.ConsumeRequestResolved(ctx, reader, refunder, zap.NewNop(), time.Millisecond)

		assert.Equal(t, []string{"l-9", "l-9", "l-9"}, refunder.calls)
		assert.Empty(t, reader.committed)
	})
}

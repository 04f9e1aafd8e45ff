//go:build unit

package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"arc-storefront/internal/infra"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/delivery"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	calls []publishCall
	err   error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg, deadline: hasDeadline})
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRabbitPublisher(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("routes by event type", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newRabbitPublisher(ch, "storefront", discardLogger())

		err := p.Publish(context.Background(), delivery.Event{
			Type:       delivery.EventFailed,
			Reference:  4821,
			Recipient:  "juan@example.com",
			Total:      2597,
			Kind:       errs.KindTransportUnavailable,
			Reason:     "SMTP Connection failed",
			OccurredAt: at,
		})
		require.NoError(t, err)
		require.Len(t, ch.calls, 1)

		call := ch.calls[0]
		assert.Equal(t, "storefront", call.exchange)
		assert.Equal(t, "receipt.failed", call.key)
		assert.True(t, call.deadline)
		assert.Equal(t, "application/json", call.msg.ContentType)
		assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)
		assert.Equal(t, at, call.msg.Timestamp)

		var body map[string]any
		require.NoError(t, json.Unmarshal(call.msg.Body, &body))
		assert.Equal(t, "TRANSPORT_UNAVAILABLE", body["kind"])
		assert.Equal(t, float64(4821), body["reference"])
		assert.NotContains(t, body, "messageId")
	})

	t.Run("surfaces broker errors", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		p := newRabbitPublisher(ch, "storefront", discardLogger())
		err := p.Publish(context.Background(), delivery.Event{Type: delivery.EventDelivered})
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindPublishFailed))
		assert.ErrorContains(t, err, "channel closed")
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), delivery.Event{}))
}

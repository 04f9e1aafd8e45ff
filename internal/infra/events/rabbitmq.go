package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"arc-storefront/internal/infra"
	"arc-storefront/internal/usecase/delivery"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeType   = "topic"
	publishTimeout = 5 * time.Second
	dialAttempts   = 5
)

// Connect dials the broker and declares the durable topic exchange receipts are published to.
func Connect(url, exchange string, logger *slog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := range dialAttempts {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to RabbitMQ", "attempt", i+1, "error", err)
		if i < dialAttempts-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type rabbitPublisher struct {
	mu       sync.Mutex
	ch       publishChannel
	exchange string
	logger   *slog.Logger
}

// NewRabbitPublisher publishes receipt events with the event type as routing key.
func NewRabbitPublisher(ch *amqp.Channel, exchange string, logger *slog.Logger) delivery.EventPublisher {
	return newRabbitPublisher(ch, exchange, logger)
}

func newRabbitPublisher(ch publishChannel, exchange string, logger *slog.Logger) *rabbitPublisher {
	return &rabbitPublisher{ch: ch, exchange: exchange, logger: logger}
}

func (p *rabbitPublisher) Publish(ctx context.Context, event delivery.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal receipt event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return infra.WrapStoreErr(p.logger, infra.KindPublishFailed, "publish "+event.Type, err)
	}
	return nil
}

package delivery

//go:generate mockgen -source=ports.go -destination=../../mock/deliverymock/ports_mock.go -package=deliverymock

import (
	"context"
	"time"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
	"arc-storefront/internal/pkg/errs"
)

// Message is a single rendered receipt addressed to exactly one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport is one live connection to the mail provider. Callers must Close it.
type Transport interface {
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg Message) (messageID string, err error)
	Close() error
}

// TransportFactory builds a transport from the current mail settings on every call.
type TransportFactory interface {
	Acquire(ctx context.Context) (Transport, error)
}

const (
	EventDelivered = "receipt.delivered"
	EventFailed    = "receipt.failed"
)

type Event struct {
	Type       string    `json:"type"`
	Reference  int       `json:"reference"`
	Recipient  string    `json:"recipient"`
	Total      int64     `json:"total"`
	MessageID  string    `json:"messageId,omitempty"`
	Kind       errs.Kind `json:"kind,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher is advisory; a publish failure never changes a delivery outcome.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type UseCase interface {
	Deliver(ctx context.Context, snap order.Snapshot) (receipt.Acknowledgment, error)
}

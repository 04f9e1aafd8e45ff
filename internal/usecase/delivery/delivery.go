package delivery

import (
	"context"
	"log/slog"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/errs"
)

const smtpConnectionFailed = "SMTP Connection failed"

type deliveryUseCaseImpl struct {
	transports TransportFactory
	renderer   *receipt.Renderer
	events     EventPublisher
	clock      clock.Clock
	logger     *slog.Logger
}

func NewUseCase(
	transports TransportFactory,
	renderer *receipt.Renderer,
	events EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) UseCase {
	return &deliveryUseCaseImpl{
		transports: transports,
		renderer:   renderer,
		events:     events,
		clock:      clk,
		logger:     logger,
	}
}

// Deliver makes exactly one attempt. Cancellation of ctx does not abort an attempt in progress;
// the transport connection timeout bounds it instead.
func (uc *deliveryUseCaseImpl) Deliver(ctx context.Context, snap order.Snapshot) (receipt.Acknowledgment, error) {
	ctx = context.WithoutCancel(ctx)

	ack, err := uc.deliver(ctx, snap)
	if err != nil {
		kind, _ := errs.KindOf(err)
		uc.logger.ErrorContext(ctx, "receipt delivery failed",
			"reference", snap.Reference(),
			"kind", string(kind),
			"error", err,
		)
		uc.publish(ctx, Event{
			Type:      EventFailed,
			Reference: snap.Reference(),
			Recipient: snap.Customer().Email,
			Total:     snap.Total(),
			Kind:      kind,
			Reason:    err.Error(),
		})
		return receipt.Acknowledgment{}, err
	}

	uc.logger.InfoContext(ctx, "receipt sent",
		"reference", ack.Reference,
		"message_id", ack.MessageID,
	)
	uc.publish(ctx, Event{
		Type:      EventDelivered,
		Reference: ack.Reference,
		Recipient: ack.Recipient,
		Total:     snap.Total(),
		MessageID: ack.MessageID,
	})
	return ack, nil
}

func (uc *deliveryUseCaseImpl) deliver(ctx context.Context, snap order.Snapshot) (receipt.Acknowledgment, error) {
	customer := snap.Customer()
	if !customer.HasRecipient() {
		return receipt.Acknowledgment{}, errs.E(errs.KindMissingRecipient, order.MissingRecipientMessage, nil)
	}

	transport, err := uc.transports.Acquire(ctx)
	if err != nil {
		return receipt.Acknowledgment{}, ensureKind(err, errs.KindTransportUnavailable, smtpConnectionFailed)
	}
	defer func() {
		if cerr := transport.Close(); cerr != nil {
			uc.logger.WarnContext(ctx, "failed to close mail transport", "error", cerr)
		}
	}()

	if err := transport.Verify(ctx); err != nil {
		return receipt.Acknowledgment{}, errs.E(errs.KindTransportUnavailable, smtpConnectionFailed, err)
	}

	html, err := uc.renderer.Render(snap)
	if err != nil {
		return receipt.Acknowledgment{}, err
	}

	messageID, err := transport.Send(ctx, Message{
		To:      customer.Email,
		Subject: receipt.Subject(snap),
		HTML:    html,
	})
	if err != nil {
		return receipt.Acknowledgment{}, ensureKind(err, errs.KindTransportUnavailable, "failed to send receipt")
	}
	if messageID == "" {
		return receipt.Acknowledgment{}, errs.E(errs.KindDeliveryRejected, "provider did not acknowledge the message", nil)
	}

	return receipt.Acknowledgment{
		Reference: snap.Reference(),
		MessageID: messageID,
		Recipient: customer.Email,
	}, nil
}

func (uc *deliveryUseCaseImpl) publish(ctx context.Context, event Event) {
	if uc.events == nil {
		return
	}
	event.OccurredAt = uc.clock.Now()
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish receipt event", "type", event.Type, "error", err)
	}
}

// ensureKind keeps an existing kind and otherwise tags err with fallback.
func ensureKind(err error, fallback errs.Kind, msg string) error {
	if _, ok := errs.KindOf(err); ok {
		return err
	}
	return errs.E(fallback, msg, err)
}

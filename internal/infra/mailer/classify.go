package mailer

import (
	"context"
	"errors"
	"net"
	"net/textproto"

	"arc-storefront/internal/pkg/errs"

	"github.com/wneessen/go-mail"
)

// classify maps go-mail and network failures onto the delivery error kinds.
// Replies from the provider are rejections; anything that kept us from talking to it is unavailability.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errs.KindOf(err); ok {
		return err
	}

	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		if sendErr.Reason == mail.ErrConnCheck {
			return errs.E(errs.KindTransportUnavailable, "SMTP connection lost", err)
		}
		return errs.E(errs.KindDeliveryRejected, "mail provider rejected the message", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.E(errs.KindTransportUnavailable, "SMTP connection timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errs.E(errs.KindTransportUnavailable, "SMTP server unreachable", err)
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return errs.E(errs.KindDeliveryRejected, "mail provider rejected the request", err)
	}

	return errs.E(errs.KindTransportUnavailable, "SMTP Connection failed", err)
}

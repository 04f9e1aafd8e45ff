package errs

import (
	"errors"
)

type Kind string

// Delivery pipeline error kinds
const (
	KindValidation           Kind = "VALIDATION"
	KindMissingRecipient     Kind = "MISSING_RECIPIENT"
	KindTransportUnavailable Kind = "TRANSPORT_UNAVAILABLE"
	KindDeliveryRejected     Kind = "DELIVERY_REJECTED"
)

// Error carries a Kind alongside a human-readable reason.
type Error struct {
	Kind Kind
	msg  string
	err  error // wrapped low-level error
}

func (e Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e Error) Unwrap() error {
	return e.err
}

// Reason is the message shown to the shopper, without the low-level cause.
func (e Error) Reason() string {
	return e.msg
}

func E(kind Kind, msg string, err error) error {
	return Error{Kind: kind, msg: msg, err: err}
}

func Validation(msg string) error {
	return Error{Kind: KindValidation, msg: msg}
}

// KindOf returns the kind of the outermost Error in the chain.
func KindOf(err error) (Kind, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries kind. MissingRecipient is a specialization of Validation.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	if k == kind {
		return true
	}
	return kind == KindValidation && k == KindMissingRecipient
}

// ReasonOf returns the shopper-facing reason of the outermost Error, or err's full text.
func ReasonOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Reason()
	}
	return err.Error()
}

func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}

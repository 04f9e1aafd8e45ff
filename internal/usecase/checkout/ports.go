package checkout

//go:generate mockgen -source=ports.go -destination=../../mock/checkoutmock/ports_mock.go -package=checkoutmock

import (
	"context"

	"arc-storefront/internal/domain/cart"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
)

// Deliverer sends the receipt for one snapshot. It is either the in-process delivery use case
// or the remote receipt endpoint client.
type Deliverer interface {
	Deliver(ctx context.Context, snap order.Snapshot) (receipt.Acknowledgment, error)
}

// CartSource is the session cart as seen by checkout. Implementations serialise access.
type CartSource interface {
	Lines() []cart.Line
	IsEmpty() bool
	Clear()
}

package session

//go:generate mockgen -source=ports.go -destination=../../mock/sessionmock/ports_mock.go -package=sessionmock

import (
	"context"
	"time"

	"arc-storefront/internal/domain/catalog"
)

// StoredLine is the persisted shape of a cart line. Prices are never stored; they come from the catalog.
type StoredLine struct {
	ProductID catalog.ProductID `json:"productId"`
	Quantity  int               `json:"quantity"`
}

// CartRepository persists session carts. found is false when nothing is stored for sessionID.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (lines []StoredLine, found bool, err error)
	Save(ctx context.Context, sessionID string, lines []StoredLine) error
	Delete(ctx context.Context, sessionID string) error
}

// ExpiringRepository is implemented by stores that hold expired carts until told to drop them.
type ExpiringRepository interface {
	PurgeExpired(now time.Time) int
}

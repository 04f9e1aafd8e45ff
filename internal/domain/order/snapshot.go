package order

import (
	"time"

	"arc-storefront/internal/domain/catalog"
)

type Item struct {
	ProductID catalog.ProductID
	Name      string
	Quantity  int
	UnitPrice int64
}

func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Snapshot is the order as it stood at submission time. It never aliases a live cart.
type Snapshot struct {
	reference int
	customer  CustomerInfo
	items     []Item
	total     int64
	count     int
	createdAt time.Time
}

func NewSnapshot(reference int, customer CustomerInfo, items []Item, createdAt time.Time) Snapshot {
	copied := make([]Item, len(items))
	copy(copied, items)

	var total int64
	count := 0
	for _, it := range copied {
		total += it.Subtotal()
		count += it.Quantity
	}

	return Snapshot{
		reference: reference,
		customer:  customer.Normalize(),
		items:     copied,
		total:     total,
		count:     count,
		createdAt: createdAt,
	}
}

func (s Snapshot) Reference() int         { return s.reference }
func (s Snapshot) Customer() CustomerInfo { return s.customer }
func (s Snapshot) Total() int64           { return s.total }
func (s Snapshot) Count() int             { return s.count }
func (s Snapshot) CreatedAt() time.Time   { return s.createdAt }

func (s Snapshot) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

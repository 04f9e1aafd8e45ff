//go:build unit || e2e

package builder

import (
	"time"

	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	reqdto "arc-storefront/internal/handler/dto/request"
)

type OrderBuilder struct {
	Reference int
	FullName  string
	Email     string
	Phone     string
	Address   string
	Items     []order.Item
	CreatedAt time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		Reference: 48213,
		FullName:  "Juan Dela Cruz",
		Email:     "juan@example.com",
		Phone:     "09171234567",
		Address:   "123 Rizal St, Manila",
		Items: []order.Item{
			{ProductID: 2, Name: "ARC FUTURE TEE", Quantity: 2, UnitPrice: 599},
			{ProductID: 4, Name: "ARC FUTURE HOODIES", Quantity: 1, UnitPrice: 1399},
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) Customer() order.CustomerInfo {
	return order.CustomerInfo{
		FullName: b.FullName,
		Email:    b.Email,
		Phone:    b.Phone,
		Address:  b.Address,
	}
}

func (b *OrderBuilder) BuildSnapshot() order.Snapshot {
	return order.NewSnapshot(b.Reference, b.Customer(), b.Items, b.CreatedAt)
}

// BuildTotal is the sum the server is expected to compute for Items.
func (b *OrderBuilder) BuildTotal() int64 {
	return b.BuildSnapshot().Total()
}

func (b *OrderBuilder) BuildSendReceiptRequestDTO() reqdto.SendReceiptRequest {
	total := b.BuildTotal()
	reference := b.Reference
	fullName := b.FullName

	items := make([]reqdto.ReceiptItem, len(b.Items))
	for i, it := range b.Items {
		items[i] = reqdto.ReceiptItem{
			ID:       int(it.ProductID),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice,
		}
	}

	return reqdto.SendReceiptRequest{
		Customer: reqdto.ReceiptCustomer{
			Email:    b.Email,
			FullName: &fullName,
			Phone:    b.Phone,
			Address:  b.Address,
		},
		Items:     items,
		Total:     &total,
		Reference: &reference,
	}
}

func (b *OrderBuilder) BuildCustomerRequestDTO() reqdto.CustomerRequest {
	return reqdto.CustomerRequest{
		FullName: b.FullName,
		Email:    b.Email,
		Phone:    b.Phone,
		Address:  b.Address,
	}
}

// ProductIDs returns the catalog ids of Items in order.
func (b *OrderBuilder) ProductIDs() []catalog.ProductID {
	ids := make([]catalog.ProductID, len(b.Items))
	for i, it := range b.Items {
		ids[i] = it.ProductID
	}
	return ids
}

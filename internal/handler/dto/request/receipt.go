package request

import (
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/pkg/patch"
)

// SendReceiptRequest is the body of POST /send-receipt.
// Either fullName or name carries the customer's name.
type SendReceiptRequest struct {
	Customer  ReceiptCustomer `json:"customer"`
	Items     []ReceiptItem   `json:"items" binding:"dive"`
	Total     *int64          `json:"total"`
	Reference *int            `json:"reference"`
}

type ReceiptCustomer struct {
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
	Name     *string `json:"name"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
}

type ReceiptItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=1"`
	Price    int64  `json:"price" binding:"min=0"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

func (r *SendReceiptRequest) ToCustomer() order.CustomerInfo {
	return order.CustomerInfo{
		FullName: patch.FirstNonBlank(r.Customer.FullName, r.Customer.Name),
		Email:    r.Customer.Email,
		Phone:    r.Customer.Phone,
		Address:  r.Customer.Address,
	}.Normalize()
}

func (r *SendReceiptRequest) ToItems() []order.Item {
	items := make([]order.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.Item{
			ProductID: catalog.ProductID(it.ID),
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		}
	}
	return items
}

// ClaimedTotal is the total the client computed, zero when it sent none.
func (r *SendReceiptRequest) ClaimedTotal() (int64, bool) {
	if r.Total == nil {
		return 0, false
	}
	return *r.Total, true
}

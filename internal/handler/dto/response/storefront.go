package response

import (
	"arc-storefront/internal/domain/cart"
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/usecase/checkout"
	"arc-storefront/internal/usecase/session"

	"github.com/jinzhu/copier"
)

type ProductResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

func FromProduct(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:       int(p.ID()),
		Name:     p.Name(),
		Price:    p.Price(),
		Image:    p.Image(),
		Category: p.Category(),
	}
}

func FromProducts(products []catalog.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = FromProduct(p)
	}
	return res
}

type CartLineResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal int64           `json:"subtotal"`
}

type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Total    int64              `json:"total"`
	Count    int                `json:"count"`
	CartOpen bool               `json:"cartOpen"`
	Checkout CheckoutResponse   `json:"checkout"`
}

func FromView(v session.View) CartResponse {
	return CartResponse{
		Lines:    fromLines(v.Lines),
		Total:    v.Total,
		Count:    v.Count,
		CartOpen: v.CartOpen,
		Checkout: FromStatus(v.Checkout),
	}
}

func fromLines(lines []cart.Line) []CartLineResponse {
	res := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		res[i] = CartLineResponse{
			Product:  FromProduct(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		}
	}
	return res
}

type CustomerResponse struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type FailureResponse struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type CheckoutResponse struct {
	State     string           `json:"state"`
	Open      bool             `json:"open"`
	Customer  CustomerResponse `json:"customer"`
	Reference int              `json:"reference,omitempty"`
	MessageID string           `json:"messageId,omitempty"`
	Failure   *FailureResponse `json:"failure,omitempty"`
}

func FromStatus(st checkout.Status) CheckoutResponse {
	res := CheckoutResponse{
		State:     string(st.State),
		Open:      st.CheckoutOpen,
		Customer:  fromCustomer(st.Customer),
		Reference: st.Reference,
		MessageID: st.MessageID,
	}
	if st.State == checkout.StateFailed {
		res.Failure = &FailureResponse{
			Kind:   string(st.FailureKind),
			Reason: st.FailureReason,
		}
	}
	return res
}

func fromCustomer(info order.CustomerInfo) CustomerResponse {
	var res CustomerResponse
	// both sides are plain string fields with matching names
	_ = copier.Copy(&res, &info)
	return res
}

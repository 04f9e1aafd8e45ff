package request

import (
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"

	"github.com/jinzhu/copier"
)

type AddItemRequest struct {
	ProductID int `json:"productId" binding:"required,min=1"`
}

func (r *AddItemRequest) ToDomain() catalog.ProductID {
	return catalog.ProductID(r.ProductID)
}

// UpdateQuantityRequest accepts any delta, zero included; only an absent delta is rejected.
type UpdateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type CartOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// CustomerRequest is the checkout form. Fields are validated on submit, not on update.
type CustomerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (r *CustomerRequest) ToDomain() (order.CustomerInfo, error) {
	var info order.CustomerInfo
	if err := copier.Copy(&info, r); err != nil {
		return order.CustomerInfo{}, err
	}
	return info, nil
}

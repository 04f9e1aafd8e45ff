package catalog

import (
	"errors"
	"strings"
)

var (
	ErrInvalidProductID    = errors.New("product id must be positive")
	ErrEmptyProductName    = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must be a positive whole amount")
	ErrDuplicateProductID  = errors.New("duplicate product id")
	ErrEmptyCatalog        = errors.New("catalog has no products")
)

type ProductID int

type Product struct {
	id       ProductID
	name     string
	price    int64
	image    string
	category string
}

func NewProduct(id ProductID, name string, price int64, image, category string) (Product, error) {
	if id <= 0 {
		return Product{}, ErrInvalidProductID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrEmptyProductName
	}
	if price <= 0 {
		return Product{}, ErrInvalidProductPrice
	}
	return Product{
		id:       id,
		name:     name,
		price:    price,
		image:    image,
		category: category,
	}, nil
}

func (p Product) ID() ProductID    { return p.id }
func (p Product) Name() string     { return p.name }
func (p Product) Price() int64     { return p.price }
func (p Product) Image() string    { return p.image }
func (p Product) Category() string { return p.category }

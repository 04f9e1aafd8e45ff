// Package cart holds the shopping cart state machine. A Cart is owned by a single
// actor; callers that share one across goroutines must serialise access.
package cart

import (
	"arc-storefront/internal/domain/catalog"
)

type Line struct {
	Product  catalog.Product
	Quantity int
}

func (l Line) Subtotal() int64 {
	return int64(l.Quantity) * l.Product.Price()
}

// Cart keeps at most one line per product, each with quantity >= 1, in insertion order.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from persisted lines, dropping non-positive quantities and
// merging repeated products into the first occurrence.
func Restore(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.indexOf(l.Product.ID()); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) AddItem(p catalog.Product) {
	if i := c.indexOf(p.ID()); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

func (c *Cart) RemoveItem(id catalog.ProductID) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity never deletes a line; the quantity floor is 1.
func (c *Cart) UpdateQuantity(id catalog.ProductID, delta int) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Count() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(id catalog.ProductID) int {
	if i := c.indexOf(id); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) indexOf(id catalog.ProductID) int {
	for i, l := range c.lines {
		if l.Product.ID() == id {
			return i
		}
	}
	return -1
}

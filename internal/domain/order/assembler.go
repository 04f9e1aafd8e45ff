package order

import (
	"math/rand/v2"

	"arc-storefront/internal/domain/cart"
	"arc-storefront/internal/pkg/clock"
)

// MaxReference bounds the display-only order reference. References are neither unique nor persisted.
const MaxReference = 100000

type ReferenceGenerator interface {
	Next() int
}

type RandomReferences struct{}

func NewRandomReferences() ReferenceGenerator {
	return RandomReferences{}
}

func (RandomReferences) Next() int {
	return rand.IntN(MaxReference)
}

type LineSource interface {
	Lines() []cart.Line
}

type Assembler struct {
	refs  ReferenceGenerator
	clock clock.Clock
}

func NewAssembler(refs ReferenceGenerator, clk clock.Clock) *Assembler {
	return &Assembler{refs: refs, clock: clk}
}

func (a *Assembler) Assemble(customer CustomerInfo, src LineSource) (Snapshot, error) {
	if err := customer.Validate(); err != nil {
		return Snapshot{}, err
	}
	return a.Unchecked(customer, src), nil
}

// Unchecked builds the snapshot without validating the customer.
func (a *Assembler) Unchecked(customer CustomerInfo, src LineSource) Snapshot {
	lines := src.Lines()
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			ProductID: l.Product.ID(),
			Name:      l.Product.Name(),
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price(),
		})
	}
	return NewSnapshot(a.refs.Next(), customer, items, a.clock.Now())
}

// FromItems builds a snapshot from already-priced items. A non-positive reference draws a fresh one.
func (a *Assembler) FromItems(reference int, customer CustomerInfo, items []Item) Snapshot {
	if reference <= 0 {
		reference = a.refs.Next()
	}
	return NewSnapshot(reference, customer, items, a.clock.Now())
}

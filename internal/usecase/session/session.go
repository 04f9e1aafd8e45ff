package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"arc-storefront/internal/domain/cart"
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/checkout"
)

// View is what the storefront renders for one session.
type View struct {
	ID       string
	Lines    []cart.Line
	Total    int64
	Count    int
	CartOpen bool
	Checkout checkout.Status
}

// Session owns one shopper's cart, drawer flag and checkout orchestrator.
// The session mutex serialises every cart access, including the orchestrator's.
type Session struct {
	id      string
	catalog *catalog.Catalog
	repo    CartRepository
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.Mutex
	cart     *cart.Cart
	cartOpen bool
	lastSeen time.Time

	checkout *checkout.Orchestrator
}

func (s *Session) ID() string { return s.id }

func (s *Session) Checkout() *checkout.Orchestrator { return s.checkout }

// AddItem adds one unit of productID and opens the cart drawer.
func (s *Session) AddItem(ctx context.Context, productID catalog.ProductID) error {
	p, ok := s.catalog.Find(productID)
	if !ok {
		return errs.ErrProductNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(p)
	s.cartOpen = true
	s.touchLocked()
	s.persistLocked(ctx)
	return nil
}

func (s *Session) RemoveItem(ctx context.Context, productID catalog.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(productID)
	s.touchLocked()
	s.persistLocked(ctx)
}

func (s *Session) UpdateQuantity(ctx context.Context, productID catalog.ProductID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, delta)
	s.touchLocked()
	s.persistLocked(ctx)
}

func (s *Session) SetCartOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = open
	s.touchLocked()
}

func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		ID:       s.id,
		Lines:    s.cart.Lines(),
		Total:    s.cart.Total(),
		Count:    s.cart.Count(),
		CartOpen: s.cartOpen,
	}
	s.touchLocked()
	s.mu.Unlock()

	// Never call into the orchestrator with the session lock held.
	v.Checkout = s.checkout.Status()
	return v
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touchLocked() {
	s.lastSeen = s.clock.Now()
}

// persistLocked is best effort; a failed save never fails the cart operation.
// An empty cart is deleted rather than stored.
func (s *Session) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if s.cart.IsEmpty() {
		if err := s.repo.Delete(ctx, s.id); err != nil {
			s.logger.WarnContext(ctx, "failed to delete empty cart", "session_id", s.id, "error", err)
		}
		return
	}
	lines := s.cart.Lines()
	stored := make([]StoredLine, 0, len(lines))
	for _, l := range lines {
		stored = append(stored, StoredLine{ProductID: l.Product.ID(), Quantity: l.Quantity})
	}
	if err := s.repo.Save(ctx, s.id, stored); err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart", "session_id", s.id, "error", err)
	}
}

// sessionCart is the orchestrator's view of the session cart.
type sessionCart struct {
	s *Session
}

func (c sessionCart) Lines() []cart.Line {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.cart.Lines()
}

func (c sessionCart) IsEmpty() bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.cart.IsEmpty()
}

func (c sessionCart) Clear() {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.cart.Clear()
	c.s.persistLocked(context.Background())
}

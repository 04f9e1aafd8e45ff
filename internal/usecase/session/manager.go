package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"arc-storefront/internal/domain/cart"
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/checkout"

	"golang.org/x/sync/singleflight"
)

type Options struct {
	IdleTTL  time.Duration
	Checkout checkout.Options
}

// Manager keeps the live sessions of this process and rehydrates carts from the repository.
type Manager struct {
	catalog   *catalog.Catalog
	repo      CartRepository
	deliverer checkout.Deliverer
	refs      order.ReferenceGenerator
	clock     clock.Clock
	logger    *slog.Logger
	opts      Options

	mu       sync.Mutex
	sessions map[string]*Session
	loads    singleflight.Group
}

func NewManager(
	cat *catalog.Catalog,
	repo CartRepository,
	deliverer checkout.Deliverer,
	refs order.ReferenceGenerator,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) *Manager {
	return &Manager{
		catalog:   cat,
		repo:      repo,
		deliverer: deliverer,
		refs:      refs,
		clock:     clk,
		logger:    logger,
		opts:      opts,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the live session for id, loading it once even under concurrent requests.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if s := m.lookup(id); s != nil {
		return s, nil
	}

	v, err, _ := m.loads.Do(id, func() (any, error) {
		if s := m.lookup(id); s != nil {
			return s, nil
		}
		s := m.build(id, m.restore(ctx, id))

		m.mu.Lock()
		m.sessions[id] = s
		m.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Forget drops the session and its persisted cart. A session with a delivery in flight is kept.
func (m *Manager) Forget(ctx context.Context, id string) error {
	m.mu.Lock()
	s := m.sessions[id]
	if s != nil && s.checkout.InFlight() {
		m.mu.Unlock()
		return errs.ErrSubmissionInFlight
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	if s != nil {
		s.checkout.Stop()
	}
	if m.repo == nil {
		return nil
	}
	return m.repo.Delete(ctx, id)
}

// Sweep evicts sessions idle since before now-IdleTTL. Sessions with a delivery in flight stay.
// Persisted carts outlive the session until the store expires them.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.opts.IdleTTL)

	m.mu.Lock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.Unlock()

	evicted := 0
	for _, s := range candidates {
		if !s.idleSince().Before(cutoff) || s.checkout.InFlight() {
			continue
		}
		m.mu.Lock()
		if m.sessions[s.id] == s {
			delete(m.sessions, s.id)
			evicted++
		}
		m.mu.Unlock()
		s.checkout.Stop()
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle sessions", "count", evicted)
	}
	if store, ok := m.repo.(ExpiringRepository); ok {
		if purged := store.PurgeExpired(now); purged > 0 {
			m.logger.Debug("purged expired carts", "count", purged)
		}
	}
	return evicted
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.clock.Now())
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	s := m.sessions[id]
	m.mu.Unlock()
	if s != nil {
		s.mu.Lock()
		s.touchLocked()
		s.mu.Unlock()
	}
	return s
}

func (m *Manager) restore(ctx context.Context, id string) *cart.Cart {
	if m.repo == nil {
		return cart.New()
	}
	stored, found, err := m.repo.Load(ctx, id)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to load cart, starting empty", "session_id", id, "error", err)
		return cart.New()
	}
	if !found {
		return cart.New()
	}

	lines := make([]cart.Line, 0, len(stored))
	for _, sl := range stored {
		p, ok := m.catalog.Find(sl.ProductID)
		if !ok {
			m.logger.InfoContext(ctx, "dropping stored line for unknown product", "session_id", id, "product_id", int(sl.ProductID))
			continue
		}
		lines = append(lines, cart.Line{Product: p, Quantity: sl.Quantity})
	}
	return cart.Restore(lines)
}

func (m *Manager) build(id string, c *cart.Cart) *Session {
	s := &Session{
		id:       id,
		catalog:  m.catalog,
		repo:     m.repo,
		clock:    m.clock,
		logger:   m.logger.With("session_id", id),
		cart:     c,
		lastSeen: m.clock.Now(),
	}
	s.checkout = checkout.NewOrchestrator(
		sessionCart{s: s},
		order.NewAssembler(m.refs, m.clock),
		m.deliverer,
		m.clock,
		s.logger,
		m.opts.Checkout,
	)
	return s
}

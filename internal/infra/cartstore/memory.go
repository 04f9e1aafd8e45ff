package cartstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/usecase/session"
)

type memoryEntry struct {
	lines     []session.StoredLine
	expiresAt time.Time
}

// MemoryRepository keeps carts in process memory. Every Save pushes the entry's expiry ttl ahead;
// expired entries read as absent and are dropped by PurgeExpired.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]memoryEntry
	ttl   time.Duration
	clock clock.Clock
}

func NewMemoryRepository(ttl time.Duration, clk clock.Clock) *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		clock: clk,
	}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) ([]session.StoredLine, bool, error) {
	r.mu.RLock()
	entry, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if r.expired(entry, r.clock.Now()) {
		r.mu.Lock()
		if current, ok := r.carts[sessionID]; ok && r.expired(current, r.clock.Now()) {
			delete(r.carts, sessionID)
		}
		r.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(entry.lines), true, nil
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, lines []session.StoredLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[sessionID] = memoryEntry{
		lines:     slices.Clone(lines),
		expiresAt: r.clock.Now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

// PurgeExpired drops every entry that expired at or before now and returns how many went.
func (r *MemoryRepository) PurgeExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for id, entry := range r.carts {
		if r.expired(entry, now) {
			delete(r.carts, id)
			purged++
		}
	}
	return purged
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}

// A non-positive ttl disables expiry.
func (r *MemoryRepository) expired(entry memoryEntry, now time.Time) bool {
	return r.ttl > 0 && !now.Before(entry.expiresAt)
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/document"
)

// entry records one reserved key with its expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore implements IdempotencyStore with an
// in-memory map. Suitable for single-instance deployments and testing.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates an in-memory idempotency store.
// It starts a background goroutine that removes expired entries.
func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	store := &InMemoryIdempotencyStore{
		ttl:      ttl,
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

func storageKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}

// Reserve marks the key as used within the TTL window
func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, tenantID uuid.UUID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storageKey(tenantID, key)
	if e, exists := s.entries[k]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.entries[k] = entry{expiresAt: time.Now().Add(s.ttl)}
	return true, nil
}

// Release frees a key so a failed transition can be retried
func (s *InMemoryIdempotencyStore) Release(_ context.Context, tenantID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, storageKey(tenantID, key))
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// Size returns the number of live entries (for testing/monitoring)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ document.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

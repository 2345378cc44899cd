package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	apperrors "github.com/cliniscribe/cliniscribe/pkg/errors"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements the CacheProvider interface with an in-process
// map. Used for single-shot CLI runs and tests where Redis is overkill.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return nil, apperrors.NewNotFoundError("cache key not found: "+key, nil)
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	var expiresAt time.Time
	if expirationSeconds > 0 {
		expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	a.mu.Lock()
	a.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return false, nil
	}
	return true, nil
}

package cache

import (
	"context"
	"lawhealth/internal/model"
	"sync"
	"time"
)

// MemorySelectionCache is an in-process SelectionCache for tests and local runs
type MemorySelectionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	sel       model.Selection
	expiresAt time.Time
}

// NewMemorySelectionCache creates an in-memory cache whose entries expire after ttl
func NewMemorySelectionCache(ttl time.Duration) *MemorySelectionCache {
	return &MemorySelectionCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemorySelectionCache) SetSelection(_ context.Context, sel *model.Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *sel
	cp.QuestionIDs = append([]string(nil), sel.QuestionIDs...)
	c.entries[sel.ID] = memoryEntry{sel: cp, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemorySelectionCache) GetSelection(_ context.Context, id string) (*model.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	sel := e.sel
	return &sel, nil
}

func (c *MemorySelectionCache) DeleteSelection(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

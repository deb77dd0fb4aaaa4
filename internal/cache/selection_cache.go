package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"lawhealth/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SelectionCache handles Redis operations for drawn question selections
type SelectionCache interface {
	SetSelection(ctx context.Context, sel *model.Selection) error
	GetSelection(ctx context.Context, id string) (*model.Selection, error)
	DeleteSelection(ctx context.Context, id string) error
}

type selectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSelectionCache creates a new selection cache. Entries expire after ttl.
func NewSelectionCache(client *redis.Client, ttl time.Duration) SelectionCache {
	return &selectionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *selectionCache) key(id string) string {
	return fmt.Sprintf("lhc:selection:%s", id)
}

func (c *selectionCache) SetSelection(ctx context.Context, sel *model.Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(sel.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache selection %s: %w", sel.ID, err)
	}
	return nil
}

// GetSelection returns nil, nil for unknown or expired selections.
func (c *selectionCache) GetSelection(ctx context.Context, id string) (*model.Selection, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get selection %s: %w", id, err)
	}
	var sel model.Selection
	if err := json.Unmarshal([]byte(data), &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *selectionCache) DeleteSelection(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

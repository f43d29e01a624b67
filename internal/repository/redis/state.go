package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

// keyPrefix carries a schema version so a future snapshot shape can be
// rolled out under new keys without migrating old ones.
const keyPrefix = "storefront:v1:state:"

// StateRepository implements repository.SnapshotRepository using Redis.
type StateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateRepository creates a new Redis-backed snapshot repository.
func NewStateRepository(client *redis.Client, ttl time.Duration) *StateRepository {
	return &StateRepository{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves a shopper's snapshot from Redis.
func (r *StateRepository) Load(ctx context.Context, shopperID string) (domain.StateSnapshot, error) {
	key := keyPrefix + shopperID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.StateSnapshot{}, apperrors.NotFound("state snapshot", shopperID)
		}
		return domain.StateSnapshot{}, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snap domain.StateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.StateSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return snap, nil
}

// Save persists a shopper's snapshot to Redis with the configured TTL.
func (r *StateRepository) Save(ctx context.Context, shopperID string, snap domain.StateSnapshot) error {
	key := keyPrefix + shopperID

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}

	return nil
}

// Delete removes a shopper's snapshot from Redis.
func (r *StateRepository) Delete(ctx context.Context, shopperID string) error {
	key := keyPrefix + shopperID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}

	return nil
}

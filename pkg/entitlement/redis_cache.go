package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "gatekit:entitlements"

// RedisCache implements Cache over Redis so multiple instances share resolved
// snapshots. Entries expire server-side via SET EX; any Redis or decode
// failure on Get reads as a miss so a cache outage degrades to rebuilding
// from source instead of failing decisions.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a shared snapshot cache with the given TTL.
// Panics if client is nil.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if client == nil {
		panic("entitlement: redis client is required")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

func snapshotRedisKey(merchantID string) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, merchantID)
}

func (c *RedisCache) Get(ctx context.Context, merchantID string) (*Snapshot, bool) {
	data, err := c.client.Get(ctx, snapshotRedisKey(merchantID)).Bytes()
	if err != nil {
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func (c *RedisCache) Put(ctx context.Context, merchantID string, snapshot *Snapshot) error {
	if c.ttl == 0 {
		// Zero TTL disables caching; SET EX 0 would be rejected by Redis.
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotRedisKey(merchantID), data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, merchantID string) error {
	return c.client.Del(ctx, snapshotRedisKey(merchantID)).Err()
}

package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const usageKeyPrefix = "gatekit:usage"

// RedisUsageTracker reads usage counters from Redis. Counters are plain
// integer keys written with Add (or by an external metering pipeline using
// the same key layout); a missing key reads as zero.
type RedisUsageTracker struct {
	client *redis.Client
}

var _ UsageTracker = (*RedisUsageTracker)(nil)

// NewRedisUsageTracker creates a tracker over the given client.
// Panics if client is nil.
func NewRedisUsageTracker(client *redis.Client) *RedisUsageTracker {
	if client == nil {
		panic("entitlement: redis client is required")
	}
	return &RedisUsageTracker{client: client}
}

func usageRedisKey(merchantID string, feature FeatureKey) string {
	return fmt.Sprintf("%s:%s:%s", usageKeyPrefix, merchantID, feature)
}

func (t *RedisUsageTracker) CurrentUsage(ctx context.Context, merchantID string, feature FeatureKey) (int64, error) {
	n, err := t.client.Get(ctx, usageRedisKey(merchantID, feature)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errors.Join(ErrFailedToReadUsage, err)
	}
	return n, nil
}

// Add atomically increments a counter and returns the new value. Metering
// pipelines record consumption through this so the evaluator reads the same
// keys it checks against.
func (t *RedisUsageTracker) Add(ctx context.Context, merchantID string, feature FeatureKey, delta int64) (int64, error) {
	n, err := t.client.IncrBy(ctx, usageRedisKey(merchantID, feature), delta).Result()
	if err != nil {
		return 0, errors.Join(ErrFailedToReadUsage, err)
	}
	return n, nil
}

package quota

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ensure RedisStore implements the Store interface.
var _ Store = (*RedisStore)(nil)

// RedisStore backs the quota gate with Redis. INCR and EXPIRE give the
// atomic-increment and TTL semantics the gate relies on; concurrent
// increments against the same key are serialized by Redis itself.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the given Redis address. The connection is
// not pinged here: the gate fails open on store errors, so a dead Redis
// must not prevent the process from serving.
func NewRedisStore(addr, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisStore{client: client}
}

// Incr atomically increments the counter and returns the new value.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// Expire (re)sets the counter's time-to-live.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package lock

import (
	"context"
	"time"

	pkgredis "github.com/careertrail/core/internal/pkg/redis"
)

const lockKeyPrefix = "workflow:lock:"

// RedisLocker keys locks in Redis via SETNX, so multiple processes share one
// lock space. TTL 0 matches the in-memory semantics exactly (no expiry); a
// positive TTL trades strictness for crash recovery.
type RedisLocker struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *pkgredis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, userID string) (bool, error) {
	return l.client.SetNX(ctx, lockKeyPrefix+userID, time.Now().Unix(), l.ttl)
}

func (l *RedisLocker) Release(ctx context.Context, userID string) error {
	return l.client.Del(ctx, lockKeyPrefix+userID)
}

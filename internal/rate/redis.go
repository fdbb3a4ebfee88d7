package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "arl:"

// RedisLimiter implements the sliding window on Redis sorted sets so the
// attempt log is shared across engine instances. Scores and members are
// nanosecond timestamps; eviction is ZREMRANGEBYSCORE below the window
// cutoff.
type RedisLimiter struct {
	redis redis.UniversalClient
	now   func() time.Time
}

// NewRedisLimiter creates a limiter backed by the given client. A nil now
// falls back to [time.Now].
func NewRedisLimiter(client redis.UniversalClient, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{redis: client, now: now}
}

// Allow applies evict-then-count-then-record against the identifier's
// sorted set. Backend failures surface as [ErrUnavailable]; the caller
// decides whether to fail open or closed.
func (l *RedisLimiter) Allow(ctx context.Context, identifier string, maxAttempts int, window time.Duration) (bool, error) {
	key := redisKeyPrefix + identifier
	nowNs := l.now().UnixNano()
	cutoff := strconv.FormatInt(nowNs-window.Nanoseconds(), 10)

	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if card.Val() >= int64(maxAttempts) {
		return false, nil
	}

	record := l.redis.TxPipeline()
	record.ZAdd(ctx, key, redis.Z{
		Score:  float64(nowNs),
		Member: strconv.FormatInt(nowNs, 10),
	})
	// Key TTL doubles as the idle-entry eviction policy: an identifier
	// silent for a full window disappears on its own.
	record.Expire(ctx, key, window)
	if _, err := record.Exec(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return true, nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (l *RedisLimiter) Close() {}

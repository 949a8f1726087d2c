package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// ErrLockNotAcquired is returned when a key stays locked for longer than the wait limit.
var ErrLockNotAcquired = errors.New("lock not acquired")

var errLockHeld = errors.New("lock held by another owner")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes callers that share a key across processes.
// Locks expire after the TTL so a crashed holder cannot block a key forever.
type RedisLocker struct {
	client rueidis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisLocker creates a RedisLocker holding keys for at most ttl.
func NewRedisLocker(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		logger: logger.Named("redis_lock"),
		prefix: "frost:lock:",
		ttl:    ttl,
	}
}

// Lock acquires the key, retrying with backoff for up to one TTL.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(20*time.Millisecond),
		backoff.WithMaxInterval(500*time.Millisecond),
		backoff.WithMaxElapsedTime(l.ttl),
	)

	err := backoff.Retry(func() error {
		err := l.client.Do(ctx, l.client.B().Set().
			Key(redisKey).
			Value(token).
			Nx().
			PxMilliseconds(l.ttl.Milliseconds()).
			Build()).Error()
		if rueidis.IsRedisNil(err) {
			return errLockHeld
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if errors.Is(err, errLockHeld) {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	return func() {
		// Release even if the caller's context is already done
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := releaseScript.Exec(releaseCtx, l.client, []string{redisKey}, []string{token}).Error(); err != nil {
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

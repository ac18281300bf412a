// Package lock provides distributed lockers for issuers running on several
// nodes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pxc/internal/core/id"
	"pxc/internal/core/tx"
	"pxc/pkg/logger"
)

var _ tx.Locker = (*RedisLocker)(nil)

// releaseScript deletes the key only if it still holds our token.
// Returns 1 if deleted, 0 if the lock expired or was taken over.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig configures a RedisLocker.
type RedisConfig struct {
	// TTL bounds how long a crashed holder can block the period (default 5s)
	TTL time.Duration

	// RetryInterval between SET NX attempts (default 5ms)
	RetryInterval time.Duration

	// Prefix for lock keys (default "pxc:lock:")
	Prefix string
}

// RedisLocker is a tx.Locker backed by SET NX PX.
//
// The lock is advisory: the store's uniqueness constraints still catch a
// collision if a holder outlives its TTL.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedisLocker creates a locker using client.
func NewRedisLocker(client redis.UniversalClient, cfg RedisConfig) *RedisLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Millisecond
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "pxc:lock:"
	}
	return &RedisLocker{client: client, cfg: cfg}
}

func (l *RedisLocker) key(name string) string {
	return l.cfg.Prefix + name
}

// Lock implements tx.Locker. It polls until the key is free or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := l.key(name)
	token := id.New().String()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(ctx, key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(ctx context.Context, key, token string) func() {
	return func() {
		// Detached from ctx so a cancelled request still frees the period.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()

		n, err := releaseScript.Run(rctx, l.client, []string{key}, token).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "redis unlock failed", "key", key, "error", err)
			return
		}
		if n == 0 {
			logger.Warn(ctx, "redis lock expired before release", "key", key, "ttl", l.cfg.TTL)
		}
	}
}

// Ping checks the connection. Used by readiness probes.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

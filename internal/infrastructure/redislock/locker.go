package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/id"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL      = 2 * time.Minute
	defaultPollInterval = 250 * time.Millisecond
	keyPrefix           = "fch-tippspiel:lock:"
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`

// renewScript extends the lease only while it still holds our token.
const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`

var _ lock.Locker = (*RedisLocker)(nil)

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type RedisLockerConfig struct {
	TTL           time.Duration
	PollInterval  time.Duration
	// RenewInterval defaults to a third of TTL.
	RenewInterval time.Duration
	Logger        *logging.Logger
	IDs           id.Generator
}

// RedisLocker holds a lease per key so several instances share one sync pass.
// The lease is renewed while held, so a pass may outlive TTL; TTL only bounds
// how long a crashed holder blocks the others.
type RedisLocker struct {
	client        redisClient
	ttl           time.Duration
	pollInterval  time.Duration
	renewInterval time.Duration
	logger        *logging.Logger
	ids           id.Generator
}

func NewRedisLocker(client redisClient, cfg RedisLockerConfig) *RedisLocker {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	renew := cfg.RenewInterval
	if renew <= 0 || renew >= ttl {
		renew = max(ttl/3, time.Millisecond)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}

	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		pollInterval:  poll,
		renewInterval: renew,
		logger:        logger,
		ids:           ids,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, true)
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, false)
}

func (l *RedisLocker) acquire(ctx context.Context, key string, wait bool) (func(), error) {
	token, err := l.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate lock token: %w", err)
	}
	redisKey := keyPrefix + key

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.hold(redisKey, token), nil
		}
		if !wait {
			return nil, lock.ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(lock.ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

// hold keeps the lease alive until the returned func runs.
func (l *RedisLocker) hold(redisKey, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.renew(redisKey, token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// the caller's context may already be done
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := l.client.Eval(ctx, releaseScript, []string{redisKey}, token).Err(); err != nil {
				l.logger.Warn("release redis lock failed", "key", redisKey, "error", err)
			}
		})
	}
}

func (l *RedisLocker) renew(redisKey, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.renewInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), l.renewInterval)
		extended, err := l.client.Eval(ctx, renewScript, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
		cancel()
		switch {
		case err != nil:
			// retried on the next tick while the lease has time left
			l.logger.Warn("renew redis lock failed", "key", redisKey, "error", err)
		case extended == 0:
			l.logger.Error("redis lock lost before release", "key", redisKey)
			return
		}
	}
}

// Package lock provides a Redis-backed mutual exclusion used to keep a single
// replica running the reaper tick.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

var ErrLockHeld = errors.New("lock is held by another owner")

// unlockLua удаляет ключ только если в нём наш токен.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

const unlockTimeout = 5 * time.Second

type RedisLocker struct {
	rdb      redis.UniversalClient
	prefix   string
	unlockSc *redis.Script
}

func NewRedisLocker(rdb redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{
		rdb:      rdb,
		prefix:   prefix,
		unlockSc: redis.NewScript(unlockLua),
	}
}

// Acquire takes the lock for ttl. The returned release func may be called
// more than once. ErrLockHeld means somebody else owns the lock.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := xid.New().String()
	lk := l.prefix + "lock:" + key

	ok, err := l.rdb.SetNX(ctx, lk, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.SetNX: %w", err)
	}

	if !ok {
		return nil, ErrLockHeld
	}

	var once sync.Once

	release := func() {
		once.Do(func() {
			unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
			defer cancel()

			_ = l.unlockSc.Run(unlockCtx, l.rdb, []string{lk}, token).Err()
		})
	}

	return release, nil
}

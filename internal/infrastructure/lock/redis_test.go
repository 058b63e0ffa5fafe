package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"auction_house/internal/infrastructure/lock"
)

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	locker := lock.NewRedisLocker(rdb, "test:"+xid.New().String()+":")

	release, err := locker.Acquire(ctx, "reaper", time.Minute)
	rq.NoError(err)

	_, err = locker.Acquire(ctx, "reaper", time.Minute)
	rq.ErrorIs(err, lock.ErrLockHeld)

	release()
	release()

	again, err := locker.Acquire(ctx, "reaper", time.Minute)
	rq.NoError(err)
	again()
}

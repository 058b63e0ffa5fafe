package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"auction_house/internal/domain"
	"auction_house/internal/infrastructure/session"
	"auction_house/pkg/errcodes"
)

func authorities(t *testing.T) map[string]session.Authority {
	t.Helper()

	out := map[string]session.Authority{
		"memory": session.NewMemory(time.Minute),
	}

	if addr := os.Getenv("REDIS_TEST_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = rdb.Close() })

		out["redis"] = session.NewRedis(rdb, "test:"+xid.New().String()+":", time.Minute)
	}

	return out
}

func TestAuthority_Lifecycle(t *testing.T) {
	for name, authority := range authorities(t) {
		t.Run(name, func(t *testing.T) {
			rq := require.New(t)
			ctx := context.Background()

			secret, err := authority.Register(ctx, "job-1")
			rq.NoError(err)
			rq.Len(secret, 32)

			_, err = authority.Register(ctx, "job-1")
			rq.True(domain.HasCode(err, errcodes.SessionAlreadyConnected))

			rq.NoError(session.Verify(ctx, authority, "job-1", secret))

			err = session.Verify(ctx, authority, "job-1", "wrong")
			rq.True(domain.HasCode(err, errcodes.Unauthorized))

			err = session.Verify(ctx, authority, "job-2", secret)
			rq.True(domain.HasCode(err, errcodes.Unauthorized))

			err = session.Verify(ctx, authority, "job-1", "")
			rq.True(domain.HasCode(err, errcodes.Unauthorized))

			rq.NoError(authority.Revoke(ctx, "job-1"))
			rq.True(domain.HasCode(authority.Revoke(ctx, "job-1"), errcodes.SessionNotFound))

			err = session.Verify(ctx, authority, "job-1", secret)
			rq.True(domain.HasCode(err, errcodes.Unauthorized))

			again, err := authority.Register(ctx, "job-1")
			rq.NoError(err)
			rq.NotEqual(secret, again)
		})
	}
}

func TestMemory_Expires(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	authority := session.NewMemory(20 * time.Millisecond)

	_, err := authority.Register(ctx, "job")
	rq.NoError(err)

	rq.Eventually(func() bool {
		_, err := authority.Lookup(ctx, "job")
		return domain.HasCode(err, errcodes.SessionNotFound)
	}, time.Second, 5*time.Millisecond)
}

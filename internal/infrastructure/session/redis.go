package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"auction_house/internal/domain"
	"auction_house/pkg/errcodes"
)

// Redis shares sessions between replicas.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *Redis) key(jobID string) string {
	return r.prefix + "session:" + jobID
}

func (r *Redis) Register(ctx context.Context, jobID string) (string, error) {
	secret, err := newSecret()
	if err != nil {
		return "", err
	}

	ok, err := r.rdb.SetNX(ctx, r.key(jobID), secret, r.ttl).Result()
	if err != nil {
		return "", storageError(fmt.Errorf("redis.SetNX: %w", err))
	}

	if !ok {
		return "", alreadyConnected()
	}

	return secret, nil
}

func (r *Redis) Lookup(ctx context.Context, jobID string) (string, error) {
	secret, err := r.rdb.Get(ctx, r.key(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", notFound()
	}
	if err != nil {
		return "", storageError(fmt.Errorf("redis.Get: %w", err))
	}

	return secret, nil
}

func (r *Redis) Revoke(ctx context.Context, jobID string) error {
	deleted, err := r.rdb.Del(ctx, r.key(jobID)).Result()
	if err != nil {
		return storageError(fmt.Errorf("redis.Del: %w", err))
	}

	if deleted == 0 {
		return notFound()
	}

	return nil
}

func storageError(err error) error {
	return domain.WrapError(err, errcodes.StorageUnavailable, "session storage unavailable")
}

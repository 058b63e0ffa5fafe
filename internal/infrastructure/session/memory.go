package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps sessions in a go-cache TTL cache. Sessions die with the process.
type Memory struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (m *Memory) Register(_ context.Context, jobID string) (string, error) {
	secret, err := newSecret()
	if err != nil {
		return "", err
	}

	// Add атомарен: второй connect того же job получит ошибку
	if err := m.cache.Add(jobID, secret, m.ttl); err != nil {
		return "", alreadyConnected()
	}

	return secret, nil
}

func (m *Memory) Lookup(_ context.Context, jobID string) (string, error) {
	v, ok := m.cache.Get(jobID)
	if !ok {
		return "", notFound()
	}

	secret, ok := v.(string)
	if !ok {
		return "", notFound()
	}

	return secret, nil
}

func (m *Memory) Revoke(_ context.Context, jobID string) error {
	if _, ok := m.cache.Get(jobID); !ok {
		return notFound()
	}

	m.cache.Delete(jobID)

	return nil
}

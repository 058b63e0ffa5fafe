// Package counter holds the advisory count of active listings.
//
// The count is updated in a separate step after each store mutation, so under
// concurrent requests it can briefly differ from the store's real size. It is
// reported to clients as a convenience figure only; nothing checks correctness
// against it. Resync realigns it with the store, which happens at start.
package counter

import (
	"context"
	"fmt"
	"sync/atomic"
)

type listingCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Counter struct {
	value atomic.Int64
}

func New(initial int64) *Counter {
	c := &Counter{}
	c.value.Store(initial)

	return c
}

// Add applies delta and returns the new value.
func (c *Counter) Add(delta int64) int64 {
	return c.value.Add(delta)
}

func (c *Counter) Inc() int64 {
	return c.Add(1)
}

func (c *Counter) Dec() int64 {
	return c.Add(-1)
}

func (c *Counter) Load() int64 {
	return c.value.Load()
}

func (c *Counter) Reset(n int64) {
	c.value.Store(n)
}

// Resync replaces the value with the store's true listing count.
func (c *Counter) Resync(ctx context.Context, store listingCounter) (int64, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return c.Load(), fmt.Errorf("store.Count: %w", err)
	}

	c.Reset(n)

	return n, nil
}

package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/counter"
	"auction_house/internal/domain/value"
	"auction_house/internal/infrastructure/lock"
	"auction_house/internal/infrastructure/memstore"
	"auction_house/internal/worker"
)

func seed(t *testing.T, store *memstore.Store, lifetimes ...int64) []value.ListingID {
	t.Helper()

	ids := make([]value.ListingID, 0, len(lifetimes))

	for _, lifetime := range lifetimes {
		id, err := value.NewListingID()
		require.NoError(t, err)

		require.NoError(t, store.Create(context.Background(), entity.Listing{
			ID:                id,
			SellerID:          1,
			Price:             decimal.NewFromInt(10),
			Quantity:          1,
			RemainingLifetime: lifetime,
			ItemID:            "shield",
			ItemClass:         "armor",
		}))

		ids = append(ids, id)
	}

	return ids
}

func TestReaper_Tick(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := memstore.New()
	seed(t, store, 1, 2, 3)

	cnt := counter.New(3)
	reaper := worker.NewReaper(store, cnt, time.Second)

	migrated, err := reaper.Tick(ctx)
	rq.NoError(err)
	rq.Equal(1, migrated)
	rq.EqualValues(2, cnt.Load())

	migrated, err = reaper.Tick(ctx)
	rq.NoError(err)
	rq.Equal(1, migrated)

	migrated, err = reaper.Tick(ctx)
	rq.NoError(err)
	rq.Equal(1, migrated)

	migrated, err = reaper.Tick(ctx)
	rq.NoError(err)
	rq.Zero(migrated)

	rq.EqualValues(0, cnt.Load())

	claims := store.Claims()
	rq.Len(claims, 3)

	for _, c := range claims {
		rq.Equal(entity.ClaimExpired, c.Reason)
		rq.Nil(c.BuyerID)
		rq.LessOrEqual(c.RemainingLifetime, int64(0))
	}
}

func TestReaper_ExtendedListingSurvives(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := memstore.New()
	ids := seed(t, store, 1)

	reaper := worker.NewReaper(store, counter.New(1), time.Second)

	rq.NoError(store.Extend(ctx, ids[0], 1, 10))

	migrated, err := reaper.Tick(ctx)
	rq.NoError(err)
	rq.Zero(migrated)

	count, err := store.Count(ctx)
	rq.NoError(err)
	rq.EqualValues(1, count)
}

type blockingStore struct {
	*memstore.Store
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) AgeAll(ctx context.Context, seconds int64) (int64, error) {
	s.entered <- struct{}{}
	<-s.release

	return s.Store.AgeAll(ctx, seconds)
}

// flakyStore fails the first Expire of one listing.
type flakyStore struct {
	*memstore.Store
	failID value.ListingID
	failed bool
}

func (s *flakyStore) Expire(ctx context.Context, id value.ListingID, at time.Time) (bool, error) {
	if id == s.failID && !s.failed {
		s.failed = true
		return false, errors.New("connection reset")
	}

	return s.Store.Expire(ctx, id, at)
}

func TestReaper_FailedExpireIsRetried(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	base := memstore.New()
	ids := seed(t, base, 1, 1, 1)

	store := &flakyStore{Store: base, failID: ids[1]}
	cnt := counter.New(3)
	reaper := worker.NewReaper(store, cnt, time.Second)

	migrated, err := reaper.Tick(ctx)
	rq.NoError(err)
	rq.Equal(2, migrated, "one failure must not block the others")
	rq.EqualValues(1, cnt.Load())
	rq.Len(base.Claims(), 2)

	migrated, err = reaper.Tick(ctx)
	rq.NoError(err)
	rq.Equal(1, migrated)
	rq.EqualValues(0, cnt.Load())

	migrated, err = reaper.Tick(ctx)
	rq.NoError(err)
	rq.Zero(migrated)

	claims := base.Claims()
	rq.Len(claims, 3)

	seen := make(map[value.ListingID]struct{}, len(claims))
	for _, c := range claims {
		seen[c.ID] = struct{}{}
	}

	rq.Len(seen, 3)
	rq.Contains(seen, ids[1])

	count, err := base.Count(ctx)
	rq.NoError(err)
	rq.Zero(count)
}

func TestReaper_TicksNeverOverlap(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := &blockingStore{
		Store:   memstore.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	reaper := worker.NewReaper(store, counter.New(0), time.Second)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		_, _ = reaper.Tick(ctx)
	}()

	<-store.entered

	// the second tick must return without touching the store
	migrated, err := reaper.Tick(ctx)
	rq.NoError(err)
	rq.Zero(migrated)

	close(store.release)
	wg.Wait()
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, lock.ErrLockHeld
}

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, errors.New("redis down")
}

func TestReaper_Locker(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := memstore.New()
	seed(t, store, 1)

	migrated, err := worker.NewReaper(store, counter.New(1), time.Second).WithLocker(heldLocker{}).Tick(ctx)
	rq.NoError(err)
	rq.Zero(migrated)

	_, err = worker.NewReaper(store, counter.New(1), time.Second).WithLocker(failingLocker{}).Tick(ctx)
	rq.Error(err)

	listings, err := store.ListAll(ctx)
	rq.NoError(err)
	rq.EqualValues(1, listings[0].RemainingLifetime)
}

func TestReaper_StartStop(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := memstore.New()
	seed(t, store, 1)

	cnt := counter.New(1)
	reaper := worker.NewReaper(store, cnt, 10*time.Millisecond)

	rq.NoError(reaper.Start(ctx))
	rq.Error(reaper.Start(ctx))
	rq.True(reaper.IsRunning())

	rq.Eventually(func() bool { return cnt.Load() == 0 }, time.Second, 5*time.Millisecond)

	reaper.Stop()
	rq.False(reaper.IsRunning())
}

func TestReaper_ExternalTicks(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := memstore.New()
	seed(t, store, 1)

	cnt := counter.New(1)
	reaper := worker.NewReaper(store, cnt, time.Second).WithExternalTicks()

	rq.NoError(reaper.HandleTask(ctx, worker.NewTickTask()))
	rq.EqualValues(1, cnt.Load())

	rq.NoError(reaper.Start(ctx))
	rq.NoError(reaper.HandleTask(ctx, worker.NewTickTask()))
	rq.EqualValues(0, cnt.Load())

	reaper.Stop()
	rq.False(reaper.IsRunning())
}

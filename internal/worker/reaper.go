package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/counter"
	"auction_house/internal/domain/value"
	"auction_house/internal/infrastructure/lock"
	"auction_house/pkg/logx"
)

const (
	TaskReaperTick = "reaper:tick"

	reaperLockKey = "reaper"
)

type ExpiryStore interface {
	AgeAll(ctx context.Context, seconds int64) (int64, error)
	ListExpired(ctx context.Context) ([]entity.Listing, error)
	Expire(ctx context.Context, id value.ListingID, at time.Time) (bool, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type ReaperMetrics interface {
	ObserveTick(d time.Duration)
	TickSkipped()
	ExpireFailed()
	ListingClaimed(reason entity.ClaimReason)
}

// Reaper ages active listings every tick and moves the expired ones into the
// claim ledger.
type Reaper struct {
	store    ExpiryStore
	counter  *counter.Counter
	interval time.Duration
	locker   Locker
	metrics  ReaperMetrics
	now      func() time.Time

	// тики приходят снаружи (asynq), своего цикла нет
	external bool
	inFlight atomic.Bool

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewReaper(store ExpiryStore, counter *counter.Counter, interval time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		counter:  counter,
		interval: interval,
		metrics:  nopReaperMetrics{},
		now:      time.Now,
	}
}

// WithLocker makes every tick hold a shared lock, so only one replica ticks.
func (w *Reaper) WithLocker(l Locker) *Reaper {
	w.locker = l
	return w
}

func (w *Reaper) WithMetrics(m ReaperMetrics) *Reaper {
	w.metrics = m
	return w
}

func (w *Reaper) WithClock(now func() time.Time) *Reaper {
	w.now = now
	return w
}

// WithExternalTicks disables the internal ticker: ticks are delivered through
// HandleTask and only processed while the reaper is started.
func (w *Reaper) WithExternalTicks() *Reaper {
	w.external = true
	return w
}

func (w *Reaper) Interval() time.Duration {
	return w.interval
}

func (w *Reaper) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("reaper is already running")
	}

	w.isRunning = true

	if w.external {
		logger(ctx).Info("reaper enabled", slog.String("mode", "external"))
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("reaper stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (w *Reaper) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.external {
		w.isRunning = false
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *Reaper) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *Reaper) Run(ctx context.Context) error {
	logger(ctx).Info("reaper started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("reaper stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Tick(ctx); err != nil {
				logger(ctx).Error("reaper tick failed", logx.Error(err))
			}
		}
	}
}

// HandleTask processes a tick enqueued by the asynq scheduler. Tick failures
// are retried by the next tick, so the task itself never fails.
func (w *Reaper) HandleTask(ctx context.Context, _ *asynq.Task) error {
	if !w.IsRunning() {
		return nil
	}

	if _, err := w.Tick(ctx); err != nil {
		logger(ctx).Error("reaper tick failed", logx.Error(err))
	}

	return nil
}

// Tick ages every listing by one interval, then migrates the expired ones.
// It returns how many listings were moved. A tick that finds another tick in
// progress is skipped.
func (w *Reaper) Tick(ctx context.Context) (int, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.metrics.TickSkipped()
		logger(ctx).Warn("reaper tick skipped, previous tick still running")
		return 0, nil
	}
	defer w.inFlight.Store(false)

	if w.locker != nil {
		release, err := w.locker.Acquire(ctx, reaperLockKey, w.lockTTL())
		if errors.Is(err, lock.ErrLockHeld) {
			w.metrics.TickSkipped()
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("locker.Acquire: %w", err)
		}
		defer release()
	}

	started := time.Now()
	defer func() { w.metrics.ObserveTick(time.Since(started)) }()

	if _, err := w.store.AgeAll(ctx, w.stepSeconds()); err != nil {
		return 0, fmt.Errorf("store.AgeAll: %w", err)
	}

	expired, err := w.store.ListExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.ListExpired: %w", err)
	}

	at := w.now()
	migrated := 0

	for _, l := range expired {
		moved, err := w.store.Expire(ctx, l.ID, at)
		if err != nil {
			w.metrics.ExpireFailed()
			logger(ctx).Error("failed to expire listing",
				slog.String(logx.FieldListingID, l.ID.String()),
				logx.Error(err),
			)
			continue
		}

		if moved {
			migrated++
			w.metrics.ListingClaimed(entity.ClaimExpired)
		}
	}

	if migrated > 0 {
		w.counter.Add(-int64(migrated))
		logger(ctx).Info("listings expired", slog.Int(logx.FieldCount, migrated))
	}

	return migrated, nil
}

// stepSeconds: лоты живут в секундах, тик короче секунды всё равно стареет на 1.
func (w *Reaper) stepSeconds() int64 {
	return max(1, int64(w.interval/time.Second))
}

func (w *Reaper) lockTTL() time.Duration {
	return max(w.interval*5, 5*time.Second)
}

type nopReaperMetrics struct{}

func (nopReaperMetrics) ObserveTick(_ time.Duration)         {}
func (nopReaperMetrics) TickSkipped()                        {}
func (nopReaperMetrics) ExpireFailed()                       {}
func (nopReaperMetrics) ListingClaimed(_ entity.ClaimReason) {}

// NewTickTask builds the task the asynq scheduler enqueues every interval.
func NewTickTask() *asynq.Task {
	return asynq.NewTask(TaskReaperTick, nil)
}

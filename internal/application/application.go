package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"auction_house/internal/config"
	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/auction"
	"auction_house/internal/domain/service/counter"
	"auction_house/internal/infrastructure/lock"
	"auction_house/internal/infrastructure/memstore"
	"auction_house/internal/infrastructure/notifier"
	"auction_house/internal/infrastructure/persistence"
	"auction_house/internal/infrastructure/session"
	"auction_house/internal/metrics"
	"auction_house/internal/server"
	"auction_house/internal/transport/bot"
	"auction_house/internal/worker"
	"auction_house/pkg/application/connectors"
	"auction_house/pkg/application/modules"
	"auction_house/pkg/contextx"
	"auction_house/pkg/dbtest"
	"auction_house/pkg/logx"
	"auction_house/pkg/probe"
)

const (
	AppName    = "auction-house"
	AppVersion = "v1.0.0"

	httpShutdownTimeout = 10 * time.Second
	salesBufferSize     = 64
	asynqQueue          = "reaper"
)

// listingStore: то, что нужно от хранилища лотов сервису и жнецу.
type listingStore interface {
	auction.ListingStore
	worker.ExpiryStore
}

// Run собирает все компоненты и блокируется до отмены ctx.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error { //nolint:funlen,cyclop
	ctx = contextx.WithLogger(ctx, log)

	log.Info("application starting",
		slog.String(logx.FieldAppName, AppName),
		slog.String(logx.FieldAppVersion, AppVersion),
		slog.String("storage", cfg.App.StorageDriver),
		slog.String("reaper-mode", cfg.Reaper.Mode),
	)

	checks := make(map[string]probe.ReadinessCheck)

	// Storage
	var (
		listings listingStore
		claims   auction.ClaimLedger
	)

	switch cfg.App.StorageDriver {
	case "memory":
		mem := memstore.New()
		listings, claims = mem, mem
	case "postgres":
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		if err := migrate(ctx, db, cfg.Postgres.MigrationsPath); err != nil {
			return err
		}

		checks["postgres"] = db.PingContext
		listings = persistence.NewListingRepository(db)
		claims = persistence.NewClaimRepository(db)
	}

	// Redis
	var rdb *redis.Client

	if cfg.Redis.Enabled() {
		rc := &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		rdb = rc.Client(ctx)
		defer rc.Close(ctx)

		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Counter
	active := counter.New(0)

	n, err := active.Resync(ctx, listings)
	if err != nil {
		return fmt.Errorf("counter.Resync: %w", err)
	}

	log.Info("active listings loaded", slog.Int64(logx.FieldCount, n))

	recorder := metrics.NewRecorder(active.Load)

	// Service
	svc := auction.NewAuctionService(listings, claims, active).
		WithExtendDelta(cfg.Analytics.ExtendDelta).
		WithWindow(cfg.Analytics.Window).
		WithMetrics(recorder)

	var sales chan entity.ClaimRecord
	if cfg.Bot.Enabled() {
		sales = make(chan entity.ClaimRecord, salesBufferSize)
		svc = svc.WithSales(sales)
	}

	// Reaper
	reaper := worker.NewReaper(listings, active, cfg.Reaper.Interval).
		WithMetrics(recorder)

	if cfg.Reaper.Lock {
		reaper = reaper.WithLocker(lock.NewRedisLocker(rdb, cfg.Redis.KeyPrefix))
	}

	if cfg.Reaper.Mode == "asynq" {
		reaper = reaper.WithExternalTicks()
	}

	// Sessions
	var sessions session.Authority

	switch cfg.Session.Driver {
	case "redis":
		sessions = session.NewRedis(rdb, cfg.Redis.KeyPrefix, cfg.Session.TTL)
	default:
		sessions = session.NewMemory(cfg.Session.TTL)
	}

	srv := server.NewServer(
		server.NewSessionServer(sessions, svc, cfg.HTTP.AllowedPlaces),
		server.NewAuctionServer(svc),
	)

	httpServer := &http.Server{
		Addr: cfg.HTTP.ListenAddress,
		Handler: srv.Handler(server.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Masker:         logx.NewSensitiveDataMasker(),
		}),
		ReadHeaderTimeout: cfg.HTTP.RequestTimeout,
		WriteTimeout:      cfg.HTTP.RequestTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: httpShutdownTimeout}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          AppName,
		Version:       AppVersion,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metric.ListenAddress,
		Gatherer:      recorder.Registry(),
	}.Run(ctx, g)

	if cfg.Reaper.Mode == "asynq" {
		asynqServer := modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
		}

		asynqServer.Run(ctx, g, modules.AsynqQueues{asynqQueue: 1}, modules.AsynqHandler{
			Pattern: worker.TaskReaperTick,
			Handle:  reaper.HandleTask,
		})

		modules.AsynqScheduler{Server: asynqServer}.Run(ctx, g, modules.AsynqPeriodicTask{
			Cronspec: "@every " + cfg.Reaper.Interval.String(),
			Task:     worker.NewTickTask(),
			Opts: []asynq.Option{
				asynq.Queue(asynqQueue),
				asynq.Unique(cfg.Reaper.Interval),
				asynq.MaxRetry(0),
			},
		})
	}

	if err := reaper.Start(ctx); err != nil {
		return fmt.Errorf("reaper.Start: %w", err)
	}

	g.Go(func() error {
		<-ctx.Done()
		reaper.Stop()

		return nil
	})

	if cfg.Bot.Enabled() {
		alerts, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, svc, cfg.Bot.AlertDiscount)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := alerts.Run(ctx, sales); err != nil && ctx.Err() == nil {
				return fmt.Errorf("notifier.Run: %w", err)
			}

			return nil
		})

		adminBot, err := bot.New(ctx, cfg.Bot, svc, reaper)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			return adminBot.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}

	log.Info("application stopped")

	return nil
}

func migrate(ctx context.Context, db *sqlx.DB, path string) error {
	if path == "" {
		return nil
	}

	if err := dbtest.MigrateFromFile(db, path); err != nil {
		return fmt.Errorf("migrate %s: %w", path, err)
	}

	logger(ctx).Info("migrations applied", slog.String("path", path))

	return nil
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

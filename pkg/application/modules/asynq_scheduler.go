package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqPeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
	Opts     []asynq.Option
}

// AsynqScheduler enqueues periodic tasks. Several replicas may run it: tasks
// registered with asynq.Unique are enqueued once per period.
type AsynqScheduler struct {
	Server AsynqServer
}

func (s AsynqScheduler) Run(
	ctx context.Context,
	g *errgroup.Group,
	tasks ...AsynqPeriodicTask,
) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.Server.redisConnection(), &asynq.SchedulerOpts{
			Logger: asynqLogger{ctx: ctx},
		})

		for _, t := range tasks {
			if _, err := scheduler.Register(t.Cronspec, t.Task, t.Opts...); err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", t.Task.Type(), err)
			}
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		logger(ctx).Info("asynq scheduler started", slog.Int("tasks", len(tasks)))

		<-ctx.Done()
		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}

// asynqLogger отправляет логи asynq в slog.
type asynqLogger struct {
	ctx context.Context //nolint:containedctx
}

func (l asynqLogger) Debug(args ...any) { logger(l.ctx).Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { logger(l.ctx).Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { logger(l.ctx).Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { logger(l.ctx).Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { logger(l.ctx).Error(fmt.Sprint(args...)) }

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. It must honour ctx cancellation.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron expressions in a fixed time zone. A job that is
// still running when its next tick arrives skips that tick.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
	l    logger.Logger
}

func New(loc *time.Location, l logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{l: l}

	ctx, stop := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:  ctx,
		stop: stop,
		l:    l,
	}
}

// Register schedules job under spec. Every run gets its own deadline of budget.
func (s *Scheduler) Register(name, spec string, budget time.Duration, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(s.ctx, name, budget, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) run(parent context.Context, name string, budget time.Duration, job Job) {
	ctx := wrap.WithAction(parent, name)
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	start := time.Now()
	err := job(ctx)
	duration := time.Since(start)
	metrics.RecordJob(name, err, duration)

	if err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "scheduled job failed", err, "duration", duration)
		return
	}
	s.l.Info(ctx, "scheduled job finished", "duration", duration)
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stop()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled jobs: %w", ctx.Err())
	}
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(wrap.WithAction(context.Background(), "cron"), msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(wrap.WithAction(context.Background(), "cron"), msg, err, keysAndValues...)
}

package microservices

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/dispatch-engine/config"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/server"
	rabbitadapter "github.com/Temutjin2k/dispatch-engine/internal/adapter/rabbit"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/scheduler"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/reconciliation"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

// SchedulerService runs the periodic reconciliation jobs.
type SchedulerService struct {
	infra      *infra
	scheduler  *scheduler.Scheduler
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewScheduler(ctx context.Context, cfg config.Config, log logger.Logger) (*SchedulerService, error) {
	inf, err := openInfra(ctx, cfg, rabbitadapter.DeclareExchanges, log)
	if err != nil {
		return nil, err
	}

	c, err := newCore(ctx, cfg, inf, log)
	if err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	loc := cfg.Dispatch.Location()
	recon := reconciliation.New(
		inf.repos.reservation,
		inf.repos.driver,
		inf.repos.history,
		inf.repos.tracking,
		inf.repos.system,
		c.params,
		c.notifier,
		inf.trm,
		reconciliation.Config{
			InactivityThreshold: cfg.Dispatch.InactivityThreshold,
			HistoryRetention:    cfg.Dispatch.HistoryRetention,
			CleanupBatchSize:    cfg.Dispatch.CleanupBatchSize,
			Location:            loc,
		},
		log,
	)

	sched := scheduler.New(loc, log)
	if err := registerJobs(sched, recon, cfg.Scheduler); err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	httpServer, err := server.New(cfg, server.Services{Probes: inf.probes()}, nil, log)
	if err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	return &SchedulerService{
		infra:      inf,
		scheduler:  sched,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func registerJobs(s *scheduler.Scheduler, recon *reconciliation.Service, cfg config.SchedulerConfig) error {
	report := func(run func(ctx context.Context) (reconciliation.Report, error)) scheduler.Job {
		return func(ctx context.Context) error {
			_, err := run(ctx)
			return err
		}
	}

	jobs := []struct {
		name   string
		spec   string
		budget time.Duration
		job    scheduler.Job
	}{
		{types.ActionTimeoutSweep, cfg.TimeoutSweep, cfg.SweepBudget, report(recon.TimeoutSweep)},
		{types.ActionConsistencySweep, cfg.ConsistencySweep, cfg.SweepBudget, report(recon.ConsistencySweep)},
		{types.ActionInactivitySweep, cfg.InactivitySweep, cfg.SweepBudget, report(recon.InactivitySweep)},
		{types.ActionDailyRollup, cfg.DailyRollup, cfg.DailyBudget, report(recon.DailyRollup)},
		{types.ActionHistoryCleanup, cfg.HistoryCleanup, cfg.DailyBudget, func(ctx context.Context) error {
			_, err := recon.CleanupHistory(ctx)
			return err
		}},
	}

	for _, j := range jobs {
		if err := s.Register(j.name, j.spec, j.budget, j.job); err != nil {
			return fmt.Errorf("failed to register job: %w", err)
		}
	}
	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "dispatch_scheduler")
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "scheduler service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)
	s.scheduler.Start()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "scheduler service started", "timezone", s.cfg.Dispatch.Timezone)
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *SchedulerService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.scheduler.Stop(ctx); err != nil {
		s.log.Warn(ctx, "scheduled jobs did not finish in time", "error", err.Error())
	}
	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
	}
	s.infra.close(ctx, s.log)
}

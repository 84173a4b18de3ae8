package microservices

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Temutjin2k/dispatch-engine/config"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/server"
	rabbitadapter "github.com/Temutjin2k/dispatch-engine/internal/adapter/rabbit"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/telemetry"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

// WorkerService runs the event-driven flows: auto assignment, settlement,
// telemetry processing and geofencing.
type WorkerService struct {
	infra      *infra
	core       *core
	processor  *telemetry.Processor
	consumer   *rabbitadapter.Consumer
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewWorker(ctx context.Context, cfg config.Config, log logger.Logger) (*WorkerService, error) {
	inf, err := openInfra(ctx, cfg, rabbitadapter.DeclareWorkerQueues, log)
	if err != nil {
		return nil, err
	}

	c, err := newCore(ctx, cfg, inf, log)
	if err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	processor := telemetry.NewProcessor(
		inf.repos.tracking,
		inf.repos.tracking,
		inf.repos.reservation,
		inf.repos.geofence,
		c.producer,
		telemetry.Config{
			SpeedThresholdKmh:  cfg.Dispatch.SpeedThresholdKmh,
			AccuracyThresholdM: cfg.Dispatch.AccuracyThresholdM,
			DefaultSampleGap:   cfg.Dispatch.DefaultSampleGap,
			DefaultSpeedKmh:    cfg.Dispatch.DefaultSpeedKmh,
			Location:           cfg.Dispatch.Location(),
		},
		log,
	)

	httpServer, err := server.New(cfg, server.Services{Probes: inf.probes()}, nil, log)
	if err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	return &WorkerService{
		infra:      inf,
		core:       c,
		processor:  processor,
		consumer:   rabbitadapter.NewConsumer(inf.mq, log),
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *WorkerService) Start(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "dispatch_worker")

	consumeCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		s.close(ctx)
		s.log.Info(ctx, "worker service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	consumers := map[string]func(ctx context.Context) error{
		types.QueueAssignment: func(ctx context.Context) error {
			return rabbitadapter.Consume(ctx, s.consumer, types.QueueAssignment, s.core.assignment.OnReservationCreated)
		},
		types.QueueSettlement: func(ctx context.Context) error {
			return rabbitadapter.Consume(ctx, s.consumer, types.QueueSettlement, s.core.settlement.OnReservationUpdated)
		},
		types.QueueTelemetry: func(ctx context.Context) error {
			return rabbitadapter.Consume(ctx, s.consumer, types.QueueTelemetry, s.processor.OnDriverPosition)
		},
		types.QueueGeofence: func(ctx context.Context) error {
			return rabbitadapter.Consume(ctx, s.consumer, types.QueueGeofence, s.processor.OnPositionCreated)
		},
	}

	for queue, run := range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(consumeCtx); err != nil {
				s.log.Error(ctx, "consumer stopped", err, "queue", queue)
			}
		}()
	}

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "worker service started", "queues", len(consumers))
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

func (s *WorkerService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
	}
	s.infra.close(ctx, s.log)
}

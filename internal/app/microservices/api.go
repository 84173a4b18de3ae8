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
	wshandler "github.com/Temutjin2k/dispatch-engine/internal/adapter/http/ws"
	rabbitadapter "github.com/Temutjin2k/dispatch-engine/internal/adapter/rabbit"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/auth"
	"github.com/Temutjin2k/dispatch-engine/internal/service/reservation"
	"github.com/Temutjin2k/dispatch-engine/internal/service/telemetry"
	"github.com/Temutjin2k/dispatch-engine/internal/service/tracking"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/dispatch-engine/pkg/wsHub"
)

// APIService serves the callable operations, intake and the live tracking stream.
type APIService struct {
	infra      *infra
	httpServer *server.API
	consumer   *rabbitadapter.Consumer
	hub        *ws.ConnectionHub
	stream     *wshandler.TrackingStream

	cfg config.Config
	log logger.Logger
}

func NewAPI(ctx context.Context, cfg config.Config, log logger.Logger) (*APIService, error) {
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

	reservationSvc := reservation.New(inf.repos.reservation, c.producer, inf.trm, log)
	ingestor := telemetry.NewIngestor(inf.repos.driver, inf.repos.history, c.producer, inf.trm, log)
	trackingSvc := tracking.New(inf.repos.history, inf.repos.tracking, inf.trm, tracking.Config{
		HistoryLimit: cfg.Dispatch.HistoryLimit,
		Location:     loc,
	}, log)

	authenticator := auth.NewAuthenticator(auth.NewTokenService(cfg.Auth.JWTSecret), cfg.Auth.AdminTokenHash, log)

	hub := ws.NewConnHub(string(cfg.Mode), log)
	stream := wshandler.NewTrackingStream(hub, log)

	httpServer, err := server.New(cfg, server.Services{
		Reservations: reservationSvc,
		Assignment:   c.assignment,
		Ingest:       ingestor,
		Tracking:     trackingSvc,
		Credits:      c.settlement,
		Stream:       stream,
		Probes:       inf.probes(),
	}, authenticator, log)
	if err != nil {
		inf.close(ctx, log)
		return nil, err
	}

	return &APIService{
		infra:      inf,
		httpServer: httpServer,
		consumer:   rabbitadapter.NewConsumer(inf.mq, log),
		hub:        hub,
		stream:     stream,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *APIService) Start(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "dispatch_api")

	consumeCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		s.close(ctx)
		s.log.Info(ctx, "api service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := rabbitadapter.ConsumeBroadcast(consumeCtx, s.consumer, types.TrackingExchange,
			func(ctx context.Context, u models.TrackingUpdate) { s.stream.Broadcast(ctx, u) })
		if err != nil {
			s.log.Error(ctx, "tracking consumer stopped", err)
		}
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "api service started")
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

func (s *APIService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
	}
	s.hub.Close()
	s.infra.close(ctx, s.log)
}

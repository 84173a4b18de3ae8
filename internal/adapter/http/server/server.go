package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Temutjin2k/dispatch-engine/config"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/handler"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/dispatch-engine/internal/adapter/http/ws"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

// Services are the domain dependencies of the dispatch-api routes.
// Worker and scheduler modes leave them empty and only expose health and metrics.
type Services struct {
	Reservations handler.ReservationService
	Assignment   handler.AssignmentService
	Ingest       handler.PositionIngestor
	Tracking     handler.TrackingService
	Credits      handler.CreditService
	Stream       *wshandler.TrackingStream

	// Probes are reported by /health in every mode.
	Probes map[string]handler.Probe
}

type handlers struct {
	health      *handler.Health
	reservation *handler.Reservation
	driver      *handler.Driver
	admin       *handler.Admin
	stream      *wshandler.TrackingStream
}

func New(
	cfg config.Config,
	services Services,
	auth middleware.Authenticator,
	logger logger.Logger,
) (*API, error) {
	var port string
	routes := &handlers{
		health: handler.NewHealth(string(cfg.Mode), services.Probes, logger),
	}

	switch cfg.Mode {
	case types.APIService:
		if auth == nil {
			return nil, errors.New("authenticator is required")
		}
		port = cfg.Services.APIPort
		routes.reservation = handler.NewReservation(services.Reservations, services.Assignment, logger)
		routes.driver = handler.NewDriver(services.Ingest, services.Tracking, logger)
		routes.admin = handler.NewAdmin(services.Credits, logger)
		routes.stream = services.Stream
	case types.WorkerService:
		port = cfg.Services.WorkerPort
	case types.SchedulerService:
		port = cfg.Services.SchedulerPort
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(auth, logger),
		addr:   net.JoinHostPort("0.0.0.0", port),
		log:    logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// Handler exposes the fully wrapped mux.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// withMiddleware applies middlewares to the mux. Metrics wraps the mux
// directly so it can read the matched pattern.
func (a *API) withMiddleware() http.Handler {
	var h http.Handler = a.m.Metrics(string(a.mode))(a.mux)
	if a.mode == types.APIService {
		h = a.m.Auth(h)
	}
	return a.m.Recover(a.m.RequestID(a.m.Logging(h)))
}

package microservices

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/config"
	fcm "github.com/Temutjin2k/dispatch-engine/internal/adapter/firebase"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/handler"
	repo "github.com/Temutjin2k/dispatch-engine/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/dispatch-engine/internal/adapter/rabbit"
	rediscache "github.com/Temutjin2k/dispatch-engine/internal/adapter/redis"
	"github.com/Temutjin2k/dispatch-engine/internal/service/assignment"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/Temutjin2k/dispatch-engine/internal/service/notify"
	"github.com/Temutjin2k/dispatch-engine/internal/service/params"
	"github.com/Temutjin2k/dispatch-engine/internal/service/settlement"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/postgres"
	"github.com/Temutjin2k/dispatch-engine/pkg/rabbit"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// infra holds the connections shared by every mode.
type infra struct {
	db    *postgres.PostgreDB
	mq    *rabbit.RabbitMQ
	redis *goredis.Client
	trm   *trm.Manager
	repos repositories
}

type repositories struct {
	driver       *repo.DriverRepo
	reservation  *repo.ReservationRepo
	notification *repo.NotificationRepo
	ledger       *repo.LedgerRepo
	system       *repo.SystemRepo
	history      *repo.HistoryRepo
	tracking     *repo.TrackingRepo
	geofence     *repo.GeofenceRepo
	params       *repo.ParamsRepo
}

// openInfra connects to Postgres and RabbitMQ, and to Redis when enabled.
// setup declares the broker topology the mode needs.
func openInfra(ctx context.Context, cfg config.Config, setup func(ch *amqp.Channel) error, log logger.Logger) (*infra, error) {
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	mq, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), rabbit.Options{
		Prefetch: cfg.RabbitMQ.Prefetch,
		Setup:    setup,
	}, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	inf := &infra{
		db:  db,
		mq:  mq,
		trm: trm.New(db.Pool),
		repos: repositories{
			driver:       repo.NewDriverRepo(db.Pool),
			reservation:  repo.NewReservationRepo(db.Pool),
			notification: repo.NewNotificationRepo(db.Pool),
			ledger:       repo.NewLedgerRepo(db.Pool),
			system:       repo.NewSystemRepo(db.Pool),
			history:      repo.NewHistoryRepo(db.Pool),
			tracking:     repo.NewTrackingRepo(db.Pool),
			geofence:     repo.NewGeofenceRepo(db.Pool),
			params:       repo.NewParamsRepo(db.Pool),
		},
	}

	if cfg.Redis.Enabled {
		client, err := rediscache.NewClient(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// parameters are then read from Postgres on every call
			log.Warn(ctx, "redis unavailable, params cache disabled", "error", err.Error())
		} else {
			inf.redis = client
		}
	}

	return inf, nil
}

func (i *infra) close(ctx context.Context, log logger.Logger) {
	if i.mq != nil {
		if err := i.mq.Close(ctx); err != nil {
			log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn(ctx, "failed to close redis", "error", err.Error())
		}
	}
	if i.db != nil {
		i.db.Close()
	}
}

// probes are the dependency checks reported by /health.
func (i *infra) probes() map[string]handler.Probe {
	probes := map[string]handler.Probe{
		"postgres": func(ctx context.Context) error { return i.db.Pool.Ping(ctx) },
		"rabbitmq": func(context.Context) error {
			if i.mq.IsConnectionClosed() {
				return rabbit.ErrClosed
			}
			return nil
		},
	}
	if i.redis != nil {
		probes["redis"] = func(ctx context.Context) error { return i.redis.Ping(ctx).Err() }
	}
	return probes
}

// core are the domain services shared by the api, worker and scheduler.
type core struct {
	producer   *rabbitadapter.Producer
	params     *params.Provider
	notifier   *notify.Dispatcher
	assignment *assignment.Engine
	settlement *settlement.Engine
}

func newCore(ctx context.Context, cfg config.Config, inf *infra, log logger.Logger) (*core, error) {
	producer := rabbitadapter.NewProducer(inf.mq, log)

	var cache params.Cache
	if inf.redis != nil {
		cache = rediscache.NewParamsCache(inf.redis)
	}
	paramsProvider := params.New(inf.repos.params, cache, cfg.Dispatch.ParamsCacheTTL, log)

	var pusher notify.Pusher
	if cfg.Firebase.ProjectID != "" || cfg.Firebase.CredentialsFile != "" {
		client, err := fcm.NewMessagingClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Warn(ctx, "firebase unavailable, push notifications disabled", "error", err.Error())
		} else {
			pusher = fcm.NewPusher(client, log)
		}
	}
	notifier := notify.New(inf.repos.notification, producer, pusher, paramsProvider, log)

	driverRate, err := decimal.NewFromString(cfg.Dispatch.DriverRate)
	if err != nil {
		return nil, fmt.Errorf("invalid driver rate %q: %w", cfg.Dispatch.DriverRate, err)
	}

	assignmentEngine := assignment.New(
		inf.repos.reservation,
		inf.repos.driver,
		paramsProvider,
		notifier,
		inf.repos.system,
		geo.NewResolver(geo.DakarZones, geo.DefaultCenter),
		inf.trm,
		assignment.Config{
			MinBalance:       decimal.NewFromFloat(cfg.Dispatch.MinBalance),
			ManualDistanceKm: cfg.Dispatch.ManualDistanceKm,
		},
		log,
	)

	settlementEngine := settlement.New(
		inf.repos.reservation,
		inf.repos.driver,
		inf.repos.ledger,
		notifier,
		inf.trm,
		settlement.Config{
			DriverRate:     driverRate,
			AuditScanLimit: cfg.Dispatch.AuditScanLimit,
		},
		log,
	)

	return &core{
		producer:   producer,
		params:     paramsProvider,
		notifier:   notifier,
		assignment: assignmentEngine,
		settlement: settlementEngine,
	}, nil
}

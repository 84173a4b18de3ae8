package telemetry

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

/*=================Projections=================================*/

type StatsRepo interface {
	// UpsertDriverStats adds DistanceIncrement to the day total, restarting it when Day changes.
	UpsertDriverStats(ctx context.Context, s models.DriverStats) error
}

type AnomalyRepo interface {
	AppendAnomaly(ctx context.Context, a models.TrackingAnomaly) error
}

type ReservationRepo interface {
	Get(ctx context.Context, id string) (*models.Reservation, error)
	UpdateTracking(ctx context.Context, id string, pos models.Position, at time.Time, distanceIncrementM float64, eta *time.Time) error
}

type ZoneRepo interface {
	ActiveZones(ctx context.Context) ([]models.GeofenceZone, error)
	AppendGeofenceEvent(ctx context.Context, e models.GeofenceEvent) error
}

// Broadcaster fans live tracking updates out to API instances.
type Broadcaster interface {
	PublishTracking(ctx context.Context, u models.TrackingUpdate) error
}

/*=================Ingest======================================*/

type DriverRepo interface {
	GetForUpdate(ctx context.Context, id string) (*models.Driver, error)
	UpdatePosition(ctx context.Context, driverID string, pos models.Position, at time.Time) error
}

type HistoryRepo interface {
	AppendSample(ctx context.Context, s models.PositionSample) error
}

type Publisher interface {
	PublishDriverPosition(ctx context.Context, evt models.DriverPositionEvent) error
	PublishPositionCreated(ctx context.Context, evt models.PositionCreatedEvent) error
}

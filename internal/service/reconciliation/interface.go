package reconciliation

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

/*=================Reservation Repository======================*/

type ReservationRepo interface {
	// ListAssignedBefore returns assigned reservations whose assignment is older than cutoff.
	ListAssignedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
	GetForUpdate(ctx context.Context, id string) (*models.Reservation, error)
	// ResetToPending clears the driver linkage of a reservation still assigned to
	// driverID, adds driverID to the rejected set and bumps the attempt counter.
	ResetToPending(ctx context.Context, id, driverID string) (bool, error)
}

/*=================Driver Repository===========================*/

type DriverRepo interface {
	GetForUpdate(ctx context.Context, id string) (*models.Driver, error)
	Release(ctx context.Context, driverID string, completed bool) error
	// ListLinkMismatches returns drivers whose two booking links differ.
	ListLinkMismatches(ctx context.Context) ([]models.Driver, error)
	SetBookingLinks(ctx context.Context, driverID, reservationID string) error
	// ListActive returns drivers with status available or on_ride.
	ListActive(ctx context.Context) ([]models.Driver, error)
	MarkInactive(ctx context.Context, driverIDs []string, at time.Time) (int64, error)
}

/*=================Tracking Repositories=======================*/

type HistoryRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error)
	DriversWithSamples(ctx context.Context, from, to time.Time) ([]string, error)
	Samples(ctx context.Context, driverID string, from, to time.Time) ([]models.PositionSample, error)
}

type DailyStatsRepo interface {
	UpsertDaily(ctx context.Context, s models.DailyStats) error
}

type SystemLogRepo interface {
	AppendLog(ctx context.Context, l models.SystemLog) error
}

/*=================Side effects================================*/

type ParamsProvider interface {
	Get(ctx context.Context) models.DispatchParams
}

type Notifier interface {
	Notify(ctx context.Context, notes ...models.Notification)
}

package assignment

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

/*=================Reservation Repository======================*/

type ReservationRepo interface {
	Get(ctx context.Context, id string) (*models.Reservation, error)
	// GetForUpdate locks the row for the rest of the surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Reservation, error)
	SetOrigin(ctx context.Context, id string, origin models.Location, approximate bool) error
	Assign(ctx context.Context, id string, a models.Assignment) error
	Complete(ctx context.Context, id string, at time.Time) error
	Cancel(ctx context.Context, id, reason, actor string, at time.Time) error
}

/*=================Driver Repository===========================*/

type DriverRepo interface {
	Get(ctx context.Context, id string) (*models.Driver, error)
	GetForUpdate(ctx context.Context, id string) (*models.Driver, error)
	// ListAvailable returns drivers with status available in a stable order.
	ListAvailable(ctx context.Context) ([]models.Driver, error)
	MarkAssigned(ctx context.Context, driverID, reservationID string, at time.Time) error
	// Release makes the driver available and clears both booking links.
	Release(ctx context.Context, driverID string, completed bool) error
}

/*=================Side effects================================*/

type ParamsProvider interface {
	Get(ctx context.Context) models.DispatchParams
}

type Notifier interface {
	Notify(ctx context.Context, notes ...models.Notification)
}

type ErrorRecorder interface {
	RecordError(ctx context.Context, e models.SystemError) error
}

type Geocoder interface {
	FallbackCoordinates(address string) models.Location
}

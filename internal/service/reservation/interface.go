package reservation

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

type Repo interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetForUpdate(ctx context.Context, id string) (*models.Reservation, error)
	SetPaymentValidated(ctx context.Context, id string, at time.Time) error
}

type Publisher interface {
	PublishReservationCreated(ctx context.Context, evt models.ReservationCreatedEvent) error
	PublishReservationUpdated(ctx context.Context, evt models.ReservationUpdatedEvent) error
}

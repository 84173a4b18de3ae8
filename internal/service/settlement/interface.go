package settlement

import (
	"context"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

type ReservationRepo interface {
	GetForUpdate(ctx context.Context, id string) (*models.Reservation, error)
	MarkCredited(ctx context.Context, id string, rec models.CreditRecord) error
	// ListUncredited returns completed, payment-validated reservations not yet credited.
	ListUncredited(ctx context.Context) ([]models.Reservation, error)
}

type DriverRepo interface {
	GetForUpdate(ctx context.Context, id string) (*models.Driver, error)
	// ApplyCredit writes the new balance to both balance columns and bumps earnings.
	ApplyCredit(ctx context.Context, driverID string, c models.DriverCredit) error
}

// LedgerRepo is the append-only credit ledger.
type LedgerRepo interface {
	AppendSuccess(ctx context.Context, e models.CreditLogEntry) error
	AppendError(ctx context.Context, e models.CreditErrorEntry) error
	// RecentSuccesses returns successful entries, newest first.
	RecentSuccesses(ctx context.Context, limit int) ([]models.CreditLogEntry, error)
}

type Notifier interface {
	Notify(ctx context.Context, notes ...models.Notification)
}

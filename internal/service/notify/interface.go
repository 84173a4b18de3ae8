package notify

import (
	"context"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

type Store interface {
	Save(ctx context.Context, n *models.Notification) error
}

type Publisher interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

// Pusher delivers a driver notification to the driver's device.
type Pusher interface {
	Push(ctx context.Context, n models.Notification) error
}

type ParamsProvider interface {
	Get(ctx context.Context) models.DispatchParams
}

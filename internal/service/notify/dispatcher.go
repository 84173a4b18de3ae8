package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// Dispatcher records notifications and fans them out to the bus and to devices.
// Every sink is best effort: failures are logged and never reach the caller.
type Dispatcher struct {
	store     Store
	publisher Publisher
	pusher    Pusher
	params    ParamsProvider
	now       func() time.Time
	l         logger.Logger
}

// New returns a dispatcher. publisher and pusher are optional.
func New(store Store, publisher Publisher, pusher Pusher, params ParamsProvider, l logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		pusher:    pusher,
		params:    params,
		now:       time.Now,
		l:         l,
	}
}

// Notify persists each notification and, when notifications are enabled,
// publishes it and pushes driver notifications that carry a device token.
func (d *Dispatcher) Notify(ctx context.Context, notes ...models.Notification) {
	if len(notes) == 0 {
		return
	}
	ctx = wrap.WithAction(ctx, types.ActionNotificationFailed)

	enabled := d.params.Get(ctx).NotificationsEnabled
	for i := range notes {
		if err := d.send(ctx, &notes[i], enabled); err != nil {
			d.l.Warn(ctx, "notification delivery incomplete",
				"type", notes[i].Type.String(),
				"recipient", string(notes[i].Recipient),
				"error", err.Error(),
			)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, n *models.Notification, enabled bool) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now().UTC()
	}

	var errs []error
	if err := d.store.Save(ctx, n); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if !enabled {
		return errors.Join(errs...)
	}

	if d.publisher != nil {
		if err := d.publisher.PublishNotification(ctx, *n); err != nil {
			errs = append(errs, fmt.Errorf("publish: %w", err))
		}
	}

	if d.pusher != nil && n.Recipient == types.RecipientDriver && n.DeviceToken != "" {
		if err := d.pusher.Push(ctx, *n); err != nil {
			errs = append(errs, fmt.Errorf("push: %w", err))
		}
	}

	return errors.Join(errs...)
}

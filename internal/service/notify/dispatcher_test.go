package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

type recorder struct {
	saved     []models.Notification
	published []models.Notification
	pushed    []models.Notification
	saveErr   error
}

func (r *recorder) Save(ctx context.Context, n *models.Notification) error {
	r.saved = append(r.saved, *n)
	return r.saveErr
}

func (r *recorder) PublishNotification(ctx context.Context, n models.Notification) error {
	r.published = append(r.published, n)
	return nil
}

func (r *recorder) Push(ctx context.Context, n models.Notification) error {
	r.pushed = append(r.pushed, n)
	return errors.New("device unregistered")
}

type staticParams models.DispatchParams

func (p staticParams) Get(ctx context.Context) models.DispatchParams {
	return models.DispatchParams(p)
}

func newTestDispatcher(r *recorder, enabled bool) *Dispatcher {
	p := models.DefaultDispatchParams()
	p.NotificationsEnabled = enabled
	return New(r, r, r, staticParams(p), logger.New(io.Discard, "test", logger.LevelError))
}

func TestNotifyFansOut(t *testing.T) {
	r := &recorder{}
	d := newTestDispatcher(r, true)

	driver := &models.Driver{ID: "drv-1", PushToken: "tok"}
	d.Notify(context.Background(),
		models.AdminNotification(types.NotifyNoDriver, "No driver", "none available", "res-1"),
		models.DriverNotification(driver, types.NotifyNewRide, "New ride", "go", "res-1"),
		models.DriverNotification(&models.Driver{ID: "drv-2"}, types.NotifyNewRide, "New ride", "go", "res-2"),
	)

	if len(r.saved) != 3 {
		t.Fatalf("saved %d, want 3", len(r.saved))
	}
	if len(r.published) != 3 {
		t.Fatalf("published %d, want 3", len(r.published))
	}
	if len(r.pushed) != 1 || r.pushed[0].DriverID != "drv-1" {
		t.Fatalf("pushed %+v, want only drv-1", r.pushed)
	}
	for _, n := range r.saved {
		if n.ID == "" || n.CreatedAt.IsZero() || n.Read {
			t.Errorf("notification not stamped: %+v", n)
		}
	}
}

func TestNotifyDisabledOnlyPersists(t *testing.T) {
	r := &recorder{}
	d := newTestDispatcher(r, false)

	d.Notify(context.Background(),
		models.DriverNotification(&models.Driver{ID: "drv-1", PushToken: "tok"}, types.NotifyRideWithdrawn, "t", "m", "res-1"),
	)

	if len(r.saved) != 1 || len(r.published) != 0 || len(r.pushed) != 0 {
		t.Fatalf("saved=%d published=%d pushed=%d", len(r.saved), len(r.published), len(r.pushed))
	}
}

func TestNotifyToleratesStoreFailure(t *testing.T) {
	r := &recorder{saveErr: errors.New("db down")}
	d := newTestDispatcher(r, true)

	d.Notify(context.Background(), models.AdminNotification(types.NotifyInactiveDrivers, "t", "m", ""))

	if len(r.published) != 1 {
		t.Fatalf("publish skipped after store failure")
	}
}

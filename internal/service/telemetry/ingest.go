package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	"github.com/google/uuid"
)

// Ingestor stores driver position fixes and emits the matching change events.
type Ingestor struct {
	driver    DriverRepo
	history   HistoryRepo
	publisher Publisher
	trm       trm.TxManager
	now       func() time.Time
	l         logger.Logger
}

func NewIngestor(driver DriverRepo, history HistoryRepo, publisher Publisher, trm trm.TxManager, l logger.Logger) *Ingestor {
	return &Ingestor{
		driver:    driver,
		history:   history,
		publisher: publisher,
		trm:       trm,
		now:       time.Now,
		l:         l,
	}
}

// UpdatePosition sets the driver's current position and appends a history sample in one transaction.
func (i *Ingestor) UpdatePosition(ctx context.Context, driverID, sessionID string, pos models.Position) (*models.PositionSample, error) {
	ctx = wrap.WithDriverID(wrap.WithAction(ctx, types.ActionPositionUpdate), driverID)

	if driverID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: driver id is required", types.ErrInvalidArgument))
	}
	if err := validatePosition(pos); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	now := i.now().UTC()
	if pos.Timestamp == nil {
		pos.Timestamp = &now
	}

	var (
		before models.Driver
		after  models.Driver
		sample models.PositionSample
	)
	err := i.trm.Do(ctx, func(ctx context.Context) error {
		d, err := i.driver.GetForUpdate(ctx, driverID)
		if err != nil {
			return err
		}
		before = *d

		if err := i.driver.UpdatePosition(ctx, driverID, pos, now); err != nil {
			return err
		}

		sample = models.PositionSample{
			ID:         uuid.NewString(),
			DriverID:   driverID,
			SessionID:  sessionID,
			Lat:        pos.Lat,
			Lng:        pos.Lng,
			Speed:      pos.Speed,
			Accuracy:   pos.Accuracy,
			RecordedAt: *pos.Timestamp,
		}
		if err := i.history.AppendSample(ctx, sample); err != nil {
			return err
		}

		after = before
		p := pos
		after.Position = &p
		after.LastActivityAt = &now
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to store position: %w", err))
	}

	if err := i.publisher.PublishDriverPosition(ctx, models.DriverPositionEvent{
		DriverID:   driverID,
		Before:     before,
		After:      after,
		OccurredAt: now,
	}); err != nil {
		i.l.Warn(ctx, "failed to publish driver position", "error", err.Error())
	}
	if err := i.publisher.PublishPositionCreated(ctx, models.PositionCreatedEvent{
		Sample:     sample,
		OccurredAt: now,
	}); err != nil {
		i.l.Warn(ctx, "failed to publish position sample", "error", err.Error())
	}

	return &sample, nil
}

func validatePosition(pos models.Position) error {
	switch {
	case pos.Lat < -90 || pos.Lat > 90:
		return fmt.Errorf("%w: latitude must be between -90 and 90", types.ErrInvalidArgument)
	case pos.Lng < -180 || pos.Lng > 180:
		return fmt.Errorf("%w: longitude must be between -180 and 180", types.ErrInvalidArgument)
	case pos.Accuracy != nil && *pos.Accuracy < 0:
		return fmt.Errorf("%w: accuracy must not be negative", types.ErrInvalidArgument)
	case pos.Speed != nil && *pos.Speed < 0:
		return fmt.Errorf("%w: speed must not be negative", types.ErrInvalidArgument)
	}
	return nil
}

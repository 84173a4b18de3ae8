package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/google/uuid"
)

type Config struct {
	SpeedThresholdKmh  float64
	AccuracyThresholdM float64
	// DefaultSampleGap is assumed when the previous fix has no timestamp.
	DefaultSampleGap time.Duration
	// DefaultSpeedKmh projects arrival when the device reports no speed.
	DefaultSpeedKmh float64
	Location        *time.Location
}

// Processor turns driver position changes into tracking projections.
type Processor struct {
	stats       StatsRepo
	anomalies   AnomalyRepo
	reservation ReservationRepo
	zones       ZoneRepo
	broadcaster Broadcaster
	cfg         Config
	now         func() time.Time
	l           logger.Logger
}

func NewProcessor(stats StatsRepo, anomalies AnomalyRepo, reservation ReservationRepo, zones ZoneRepo, broadcaster Broadcaster, cfg Config, l logger.Logger) *Processor {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Processor{
		stats:       stats,
		anomalies:   anomalies,
		reservation: reservation,
		zones:       zones,
		broadcaster: broadcaster,
		cfg:         cfg,
		now:         time.Now,
		l:           l,
	}
}

// OnDriverPosition processes a driver update. Failures are logged only.
func (p *Processor) OnDriverPosition(ctx context.Context, evt models.DriverPositionEvent) {
	ctx = wrap.WithDriverID(wrap.WithAction(ctx, types.ActionPositionUpdate), evt.DriverID)

	if _, err := p.Process(ctx, evt.Before, evt.After); err != nil {
		p.l.Error(wrap.ErrorCtx(ctx, err), "failed to process position update", err)
	}
}

// Process compares two snapshots of a driver. It returns nil when either
// snapshot has no position or the coordinates did not change.
func (p *Processor) Process(ctx context.Context, before, after models.Driver) (*models.TrackingUpdate, error) {
	if before.Position == nil || after.Position == nil {
		return nil, nil
	}
	oldPos, newPos := *before.Position, *after.Position
	if oldPos.SameSpot(newPos) {
		return nil, nil
	}

	now := p.now()
	distance := geo.DistanceKm(oldPos.Lat, oldPos.Lng, newPos.Lat, newPos.Lng)
	speed := p.impliedSpeed(distance, oldPos, newPos, now)
	anomalies := p.detect(speed, newPos)

	if len(anomalies) > 0 {
		metrics.TelemetryAnomalies.Inc()
		if err := p.anomalies.AppendAnomaly(ctx, models.TrackingAnomaly{
			ID:              uuid.NewString(),
			DriverID:        after.ID,
			Reasons:         anomalies,
			Position:        newPos,
			CalculatedSpeed: speed,
			CreatedAt:       now.UTC(),
		}); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("failed to record anomaly: %w", err))
		}
	}

	if err := p.stats.UpsertDriverStats(ctx, models.DriverStats{
		DriverID:          after.ID,
		LastPosition:      newPos,
		LastUpdate:        now.UTC(),
		CalculatedSpeed:   speed,
		DistanceIncrement: distance,
		Day:               localDay(now, p.cfg.Location),
	}); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to update driver stats: %w", err))
	}

	update := &models.TrackingUpdate{
		DriverID:   after.ID,
		Position:   newPos,
		SpeedKmh:   speed,
		DistanceKm: distance,
		Anomalies:  anomalies,
		Timestamp:  now.UTC(),
	}

	if reservationID, ok := after.BookingID(); ok {
		update.ReservationID = reservationID
		eta, err := p.trackRide(wrap.WithReservationID(ctx, reservationID), reservationID, newPos, distance, now)
		if err != nil {
			p.l.Warn(ctx, "failed to update ride tracking", "reservation_id", reservationID, "error", err.Error())
		}
		update.ETA = eta
	}

	if p.broadcaster != nil {
		if err := p.broadcaster.PublishTracking(ctx, *update); err != nil {
			p.l.Warn(ctx, "failed to publish tracking update", "error", err.Error())
		}
	}

	return update, nil
}

// impliedSpeed is the speed in km/h needed to cover distance between the two fixes.
func (p *Processor) impliedSpeed(distanceKm float64, oldPos, newPos models.Position, now time.Time) float64 {
	newAt := now
	if newPos.Timestamp != nil {
		newAt = *newPos.Timestamp
	}
	oldAt := newAt.Add(-p.cfg.DefaultSampleGap)
	if oldPos.Timestamp != nil {
		oldAt = *oldPos.Timestamp
	}

	elapsed := newAt.Sub(oldAt)
	if elapsed <= 0 {
		elapsed = p.cfg.DefaultSampleGap
	}
	return distanceKm / elapsed.Hours()
}

func (p *Processor) detect(speedKmh float64, pos models.Position) []string {
	var reasons []string
	if speedKmh > p.cfg.SpeedThresholdKmh {
		reasons = append(reasons, fmt.Sprintf("Excessive speed: %.0f km/h", speedKmh))
	}
	if pos.Accuracy != nil && *pos.Accuracy > p.cfg.AccuracyThresholdM {
		reasons = append(reasons, fmt.Sprintf("Weak GPS accuracy: %gm", *pos.Accuracy))
	}
	return reasons
}

// trackRide updates the live tracking projection of the driver's current ride.
func (p *Processor) trackRide(ctx context.Context, reservationID string, pos models.Position, distanceKm float64, now time.Time) (*time.Time, error) {
	res, err := p.reservation.Get(ctx, reservationID)
	if errors.Is(err, types.ErrReservationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	eta := p.EstimateArrival(pos, res.Destination, now)
	if err := p.reservation.UpdateTracking(ctx, reservationID, pos, now.UTC(), distanceKm*1000, eta); err != nil {
		return nil, err
	}
	return eta, nil
}

// EstimateArrival projects the arrival time from the remaining great-circle
// distance and the reported speed, or the default speed when none is reported.
func (p *Processor) EstimateArrival(pos models.Position, destination *models.Location, now time.Time) *time.Time {
	if destination == nil {
		return nil
	}
	remaining := geo.DistanceKm(pos.Lat, pos.Lng, destination.Lat, destination.Lng)

	speedKmh := p.cfg.DefaultSpeedKmh
	if pos.Speed != nil && *pos.Speed > 0 {
		speedKmh = *pos.Speed * 3.6
	}

	eta := now.Add(time.Duration(remaining / speedKmh * float64(time.Hour))).UTC()
	return &eta
}

func localDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

package telemetry

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/google/uuid"
)

// OnPositionCreated checks a new history sample against the active zones.
func (p *Processor) OnPositionCreated(ctx context.Context, evt models.PositionCreatedEvent) {
	ctx = wrap.WithDriverID(wrap.WithAction(ctx, types.ActionGeofenceCheck), evt.Sample.DriverID)

	if _, err := p.CheckGeofences(ctx, evt.Sample); err != nil {
		p.l.Error(wrap.ErrorCtx(ctx, err), "failed to check geofences", err)
	}
}

// CheckGeofences returns every active zone containing the sample. An event is
// recorded only when at least one zone matches.
func (p *Processor) CheckGeofences(ctx context.Context, sample models.PositionSample) ([]models.GeofenceAlert, error) {
	zones, err := p.zones.ActiveZones(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load geofence zones: %w", err))
	}

	var alerts []models.GeofenceAlert
	for _, z := range zones {
		d := geo.DistanceKm(sample.Lat, sample.Lng, z.Center.Lat, z.Center.Lng)
		if d <= z.RadiusM/1000 {
			alerts = append(alerts, models.GeofenceAlert{
				ZoneID:     z.ID,
				ZoneName:   z.Name,
				Kind:       z.Kind,
				DistanceKm: d,
			})
		}
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	metrics.GeofenceAlerts.Add(float64(len(alerts)))
	if err := p.zones.AppendGeofenceEvent(ctx, models.GeofenceEvent{
		ID:        uuid.NewString(),
		DriverID:  sample.DriverID,
		Position:  models.Location{Lat: sample.Lat, Lng: sample.Lng},
		Alerts:    alerts,
		CreatedAt: p.now().UTC(),
	}); err != nil {
		return alerts, wrap.Error(ctx, fmt.Errorf("failed to record geofence event: %w", err))
	}

	p.l.Info(ctx, "driver entered geofence", "zones", len(alerts))
	return alerts, nil
}

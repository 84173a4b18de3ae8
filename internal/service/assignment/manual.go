package assignment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
)

type AssignedDriver struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	DistanceKm float64 `json:"distance_km"`
}

type ManualResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Driver  AssignedDriver `json:"driver"`
}

// ManualAssign links the given driver to the reservation on behalf of the caller.
// A different driver already on the reservation is released first, best effort.
func (e *Engine) ManualAssign(ctx context.Context, caller models.Caller, reservationID, driverID string) (*ManualResult, error) {
	ctx = wrap.WithDriverID(wrap.WithReservationID(wrap.WithAction(ctx, types.ActionManualAssign), reservationID), driverID)

	if !caller.Authenticated {
		return nil, wrap.Error(ctx, types.ErrUnauthenticated)
	}
	reservationID, driverID = strings.TrimSpace(reservationID), strings.TrimSpace(driverID)
	if reservationID == "" || driverID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: reservation id and driver id are required", types.ErrInvalidArgument))
	}

	res, err := e.repos.reservation.Get(ctx, reservationID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if isTerminal(res.Status) {
		return nil, wrap.Error(ctx, types.ErrInvalidReservationState)
	}

	if prev, ok := res.AssignedDriver(); ok && prev != driverID {
		if err := e.repos.driver.Release(ctx, prev, false); err != nil {
			e.l.Warn(ctx, "failed to release previous driver", "previous_driver_id", prev, "error", err.Error())
		}
	}

	driver, err := e.repos.driver.Get(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if err := e.checkDriver(driver, false); err != nil {
		metrics.RecordAssignment(string(types.ModeManual), "rejected")
		return nil, wrap.Error(ctx, err)
	}

	distance := e.cfg.ManualDistanceKm
	if driver.Position != nil && driver.Position.Lat != 0 && res.Origin != nil {
		distance = geo.DistanceKm(res.Origin.Lat, res.Origin.Lng, driver.Position.Lat, driver.Position.Lng)
	}

	a := models.Assignment{
		DriverID:    driver.ID,
		DriverName:  driver.FullName(),
		DriverPhone: driver.Phone,
		Mode:        types.ModeManual,
		AssignedAt:  e.now().UTC(),
		AssignedBy:  caller.Actor(),
		DistanceM:   int(math.Round(distance * 1000)),
		ETAMin:      int(math.Round(distance * 3)),
	}

	if err := e.trm.Do(ctx, func(ctx context.Context) error {
		return e.commit(ctx, reservationID, a, false)
	}); err != nil {
		metrics.RecordAssignment(string(types.ModeManual), string(OutcomeFailed))
		return nil, wrap.Error(ctx, err)
	}
	metrics.RecordAssignment(string(types.ModeManual), string(OutcomeAssigned))

	e.notifier.Notify(ctx, newRideNotification(driver, res))

	return &ManualResult{
		Success: true,
		Message: fmt.Sprintf("%s assigned", driver.FullName()),
		Driver: AssignedDriver{
			Name:       driver.FullName(),
			Phone:      driver.Phone,
			DistanceKm: math.Round(distance*100) / 100,
		},
	}, nil
}

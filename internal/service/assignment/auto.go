package assignment

import (
	"context"
	"fmt"
	"math"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
)

type Outcome string

const (
	OutcomeAssigned   Outcome = "assigned"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeManualMode Outcome = "manual_mode"
	OutcomeNoDriver   Outcome = "no_driver"
	OutcomeNoneNearby Outcome = "none_nearby"
	OutcomeFailed     Outcome = "failed"
)

// OnReservationCreated runs the automatic path for a new reservation.
// Failures end in a log entry and a system error record; nothing is returned
// so the message is never redelivered.
func (e *Engine) OnReservationCreated(ctx context.Context, evt models.ReservationCreatedEvent) {
	res := evt.Reservation
	ctx = wrap.WithReservationID(wrap.WithAction(ctx, types.ActionAutoAssign), res.ID)

	outcome, err := e.AutoAssign(ctx, &res)
	if err != nil {
		metrics.RecordAssignment(string(types.ModeAutomatic), string(OutcomeFailed))
		e.l.Error(wrap.ErrorCtx(ctx, err), "automatic assignment failed", err)

		rec := models.SystemError{
			Source:        types.ActionAutoAssign,
			ReservationID: res.ID,
			Message:       err.Error(),
			CreatedAt:     e.now().UTC(),
		}
		if recErr := e.errs.RecordError(ctx, rec); recErr != nil {
			e.l.Error(ctx, "failed to record system error", recErr)
		}
		return
	}

	metrics.RecordAssignment(string(types.ModeAutomatic), string(outcome))
	e.l.Info(ctx, "automatic assignment finished", "outcome", string(outcome))
}

// AutoAssign picks the nearest eligible driver for a pending reservation and
// links both records in one transaction.
func (e *Engine) AutoAssign(ctx context.Context, res *models.Reservation) (Outcome, error) {
	if res.Status != types.StatusPending {
		return OutcomeSkipped, nil
	}

	params := e.params.Get(ctx)
	if !params.AutoAssign {
		n := models.AdminNotification(types.NotifyManualAssignment,
			"Manual assignment required",
			"New reservation waiting, manual mode is active",
			res.ID)
		n.Data = map[string]any{
			"client_name": res.ClientName,
			"origin":      res.OriginAddress,
			"destination": res.DestinationAddress,
		}
		e.notifier.Notify(ctx, n)
		return OutcomeManualMode, nil
	}

	drivers, err := e.repos.driver.ListAvailable(ctx)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("failed to list available drivers: %w", err))
	}
	if len(drivers) == 0 {
		n := models.AdminNotification(types.NotifyNoDriver, "No driver available", "No driver available", res.ID)
		n.Data = map[string]any{"client_name": res.ClientName}
		e.notifier.Notify(ctx, n)
		return OutcomeNoDriver, nil
	}

	origin, approximate, err := e.resolveOrigin(ctx, res)
	if err != nil {
		return "", err
	}

	cand, ok := SelectNearest(origin, drivers, params.SearchRadiusKm, e.cfg.MinBalance)
	if !ok {
		e.notifier.Notify(ctx, models.AdminNotification(types.NotifyNoDriverNearby,
			"No eligible driver nearby",
			fmt.Sprintf("No eligible driver (balance or distance) within %.1f km", params.SearchRadiusKm),
			res.ID))
		return OutcomeNoneNearby, nil
	}

	driver := cand.Driver
	ctx = wrap.WithDriverID(ctx, driver.ID)

	a := models.Assignment{
		DriverID:    driver.ID,
		DriverName:  driver.FullName(),
		DriverPhone: driver.Phone,
		Mode:        types.ModeAutomatic,
		AssignedAt:  e.now().UTC(),
		DistanceM:   int(math.Round(cand.DistanceKm * 1000)),
		ETAMin:      int(math.Round(cand.DistanceKm * 3)),
	}

	if err := e.trm.Do(ctx, func(ctx context.Context) error {
		return e.commit(ctx, res.ID, a, true)
	}); err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("assignment transaction aborted: %w", err))
	}

	msg := fmt.Sprintf("%s assigned (%.1f km)", driver.FullName(), cand.DistanceKm)
	if approximate {
		msg += " - approximate coordinates"
	}
	e.notifier.Notify(ctx,
		newRideNotification(&driver, res),
		models.AdminNotification(types.NotifyAssignmentSucceeded, "Driver assigned", msg, res.ID),
	)

	return OutcomeAssigned, nil
}

// commit re-reads both rows under lock, re-validates them and writes the assignment.
func (e *Engine) commit(ctx context.Context, reservationID string, a models.Assignment, auto bool) error {
	current, err := e.repos.reservation.GetForUpdate(ctx, reservationID)
	if err != nil {
		return err
	}
	if auto && current.Status != types.StatusPending {
		return types.ErrInvalidReservationState
	}
	if isTerminal(current.Status) {
		return types.ErrInvalidReservationState
	}

	driver, err := e.repos.driver.GetForUpdate(ctx, a.DriverID)
	if err != nil {
		return err
	}
	if err := e.checkDriver(driver, auto); err != nil {
		return err
	}

	if err := e.repos.reservation.Assign(ctx, reservationID, a); err != nil {
		return fmt.Errorf("failed to assign reservation: %w", err)
	}
	if err := e.repos.driver.MarkAssigned(ctx, a.DriverID, reservationID, a.AssignedAt); err != nil {
		return fmt.Errorf("failed to mark driver assigned: %w", err)
	}
	return nil
}

// resolveOrigin returns the stored origin or persists an approximate one
// looked up from the address.
func (e *Engine) resolveOrigin(ctx context.Context, res *models.Reservation) (models.Location, bool, error) {
	if res.HasOrigin() {
		return *res.Origin, false, nil
	}

	e.l.Warn(ctx, "origin coordinates missing, using address lookup", "address", res.OriginAddress)
	origin := e.geo.FallbackCoordinates(res.OriginAddress)
	if err := e.repos.reservation.SetOrigin(ctx, res.ID, origin, true); err != nil {
		return models.Location{}, false, wrap.Error(ctx, fmt.Errorf("failed to persist approximate origin: %w", err))
	}
	res.Origin = &origin
	res.OriginApproximate = true
	return origin, true, nil
}

func newRideNotification(d *models.Driver, res *models.Reservation) models.Notification {
	n := models.DriverNotification(d, types.NotifyNewRide,
		"New ride",
		fmt.Sprintf("%s to %s", res.OriginAddress, res.DestinationAddress),
		res.ID)
	n.Data = map[string]any{
		"origin":       res.OriginAddress,
		"destination":  res.DestinationAddress,
		"client_name":  res.ClientName,
		"client_phone": res.ClientPhone,
	}
	if res.EstimatedPrice != nil {
		n.Data["estimated_price"] = *res.EstimatedPrice
	}
	return n
}

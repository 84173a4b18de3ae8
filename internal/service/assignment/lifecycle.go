package assignment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

const defaultCancelReason = "Not specified"

// Complete marks the reservation completed and releases the driver.
// The two writes are independent; a driver left linked after a partial failure
// is picked up by the reconciliation sweeps.
func (e *Engine) Complete(ctx context.Context, caller models.Caller, reservationID, driverID string) error {
	ctx = wrap.WithReservationID(wrap.WithAction(ctx, types.ActionCompleteRide), reservationID)

	if !caller.Authenticated {
		return wrap.Error(ctx, types.ErrUnauthenticated)
	}
	if strings.TrimSpace(reservationID) == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: reservation id is required", types.ErrInvalidArgument))
	}

	res, err := e.repos.reservation.Get(ctx, reservationID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if isTerminal(res.Status) {
		return wrap.Error(ctx, types.ErrInvalidReservationState)
	}

	if driverID == "" {
		driverID, _ = res.AssignedDriver()
	}
	if driverID == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: no driver to release", types.ErrInvalidArgument))
	}
	ctx = wrap.WithDriverID(ctx, driverID)

	if err := e.repos.reservation.Complete(ctx, reservationID, e.now().UTC()); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to complete reservation: %w", err))
	}
	if err := e.repos.driver.Release(ctx, driverID, true); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to release driver: %w", err))
	}

	return nil
}

// Cancel releases any assigned driver and marks the reservation cancelled.
func (e *Engine) Cancel(ctx context.Context, caller models.Caller, reservationID, reason string) error {
	ctx = wrap.WithReservationID(wrap.WithAction(ctx, types.ActionCancelBooking), reservationID)

	if !caller.Authenticated {
		return wrap.Error(ctx, types.ErrUnauthenticated)
	}
	if strings.TrimSpace(reservationID) == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: reservation id is required", types.ErrInvalidArgument))
	}

	res, err := e.repos.reservation.Get(ctx, reservationID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if isTerminal(res.Status) {
		return wrap.Error(ctx, types.ErrInvalidReservationState)
	}

	if driverID, ok := res.AssignedDriver(); ok {
		if err := e.repos.driver.Release(wrap.WithDriverID(ctx, driverID), driverID, false); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to release driver: %w", err))
		}
	}

	if reason = strings.TrimSpace(reason); reason == "" {
		reason = defaultCancelReason
	}
	if err := e.repos.reservation.Cancel(ctx, reservationID, reason, caller.Actor(), e.now().UTC()); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to cancel reservation: %w", err))
	}

	return nil
}

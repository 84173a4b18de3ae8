package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/Temutjin2k/dispatch-engine/pkg/money"
	"github.com/google/uuid"
)

// IsPaymentEdge reports whether the update flipped payment validation to true.
func IsPaymentEdge(before, after models.Reservation) bool {
	return !before.PaymentValidated && after.PaymentValidated
}

// OnReservationUpdated credits the driver when the update is a payment edge.
// Failures end in the credit error ledger and are never returned.
func (e *Engine) OnReservationUpdated(ctx context.Context, evt models.ReservationUpdatedEvent) {
	if !IsPaymentEdge(evt.Before, evt.After) {
		return
	}

	res := evt.After
	ctx = wrap.WithReservationID(wrap.WithAction(ctx, types.ActionSettlement), res.ID)

	if reason := precheck(&res); reason != "" {
		e.l.Info(ctx, "settlement skipped", "reason", reason)
		metrics.RecordSettlement(types.CreditVersionTrigger, "skipped")
		return
	}
	driverID, _ := res.AssignedDriver()

	result, err := e.Credit(ctx, res.ID, driverID, types.CreditVersionTrigger)
	if err != nil {
		e.l.Error(wrap.ErrorCtx(ctx, err), "settlement failed", err)
		return
	}
	if result.Outcome == OutcomeNoop {
		e.l.Info(ctx, "settlement no-op", "reason", result.Reason)
		return
	}
	e.l.Info(ctx, "driver credited",
		"amount", result.Split.Driver.String(),
		"balance_after", result.BalanceAfter.String(),
		"operation_id", result.OperationID,
	)
}

// precheck applies the guards on the event snapshot before any transaction is opened.
func precheck(res *models.Reservation) string {
	switch {
	case res.Status != types.StatusCompleted:
		return ReasonStatusChanged
	case res.DriverCredited:
		return ReasonAlreadyCredited
	}
	if _, ok := res.AssignedDriver(); !ok {
		return ReasonDriverMissing
	}
	if !money.Decimal(res.EstimatedPrice).IsPositive() {
		return ReasonInvalidPrice
	}
	return ""
}

// Credit runs the settlement transaction for one reservation. Every guard is
// re-checked against the locked rows; a failed re-check yields OutcomeNoop.
// expectedDriver may be empty to accept whichever driver is assigned.
// A transaction failure is appended to the credit error ledger and returned.
func (e *Engine) Credit(ctx context.Context, reservationID, expectedDriver, version string) (*Result, error) {
	ctx = wrap.WithReservationID(ctx, reservationID)
	opID := fmt.Sprintf("credit_%s_%d", reservationID, e.now().UnixMilli())

	var (
		result *Result
		driver *models.Driver
	)
	err := e.trm.Do(ctx, func(ctx context.Context) error {
		res, err := e.repos.reservation.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}

		switch {
		case res.DriverCredited:
			result = noop(reservationID, ReasonAlreadyCredited)
			return nil
		case res.Status != types.StatusCompleted:
			result = noop(reservationID, ReasonStatusChanged)
			return nil
		case !res.PaymentValidated:
			result = noop(reservationID, ReasonPaymentNotValidated)
			return nil
		}

		driverID, ok := res.AssignedDriver()
		if !ok {
			result = noop(reservationID, ReasonDriverMissing)
			return nil
		}
		if expectedDriver != "" && driverID != expectedDriver {
			result = noop(reservationID, ReasonDriverMismatch)
			return nil
		}

		price := money.Decimal(res.EstimatedPrice)
		if !price.IsPositive() {
			result = noop(reservationID, ReasonInvalidPrice)
			return nil
		}

		driver, err = e.repos.driver.GetForUpdate(ctx, driverID)
		if errors.Is(err, types.ErrDriverNotFound) {
			result = noop(reservationID, ReasonDriverMissing)
			return nil
		}
		if err != nil {
			return err
		}

		split := money.SplitPayout(price, e.cfg.DriverRate)
		before := driver.AvailableBalance()
		after := before.Add(split.Driver)
		at := e.now().UTC()

		if err := e.repos.reservation.MarkCredited(ctx, reservationID, models.CreditRecord{
			OperationID:    opID,
			Version:        version,
			CreditedAt:     at,
			DriverAmount:   split.Driver,
			PlatformAmount: split.Platform,
			BalanceBefore:  before,
			BalanceAfter:   after,
		}); err != nil {
			return fmt.Errorf("failed to mark reservation credited: %w", err)
		}

		if err := e.repos.driver.ApplyCredit(ctx, driverID, models.DriverCredit{
			ReservationID: reservationID,
			Amount:        split.Driver,
			NewBalance:    after,
			CreditedAt:    at,
		}); err != nil {
			return fmt.Errorf("failed to credit driver: %w", err)
		}

		result = &Result{
			Outcome:       OutcomeCredited,
			ReservationID: reservationID,
			DriverID:      driverID,
			OperationID:   opID,
			Price:         price,
			Split:         split,
			BalanceBefore: before,
			BalanceAfter:  after,
		}
		return nil
	})
	if err != nil {
		metrics.RecordSettlement(version, "error")
		e.appendError(ctx, reservationID, expectedDriver, opID, err)
		return nil, wrap.Error(ctx, err)
	}

	metrics.RecordSettlement(version, string(result.Outcome))
	if result.Outcome == OutcomeCredited {
		e.afterCredit(wrap.WithDriverID(ctx, result.DriverID), driver, result, version)
	}

	return result, nil
}

// afterCredit runs the best-effort side effects of a committed credit.
func (e *Engine) afterCredit(ctx context.Context, driver *models.Driver, r *Result, version string) {
	n := models.DriverNotification(driver, types.NotifyCreditReceived,
		"Credit received",
		fmt.Sprintf("You received %s FCFA", r.Split.Driver.String()),
		r.ReservationID)
	n.Data = map[string]any{"amount": r.Split.Driver.String()}
	e.notifier.Notify(ctx, n)

	entry := models.CreditLogEntry{
		ID:             uuid.NewString(),
		ReservationID:  r.ReservationID,
		DriverID:       r.DriverID,
		OperationID:    r.OperationID,
		Price:          r.Price,
		DriverAmount:   r.Split.Driver,
		PlatformAmount: r.Split.Platform,
		BalanceBefore:  r.BalanceBefore,
		BalanceAfter:   r.BalanceAfter,
		Version:        version,
		Success:        true,
		CreatedAt:      e.now().UTC(),
	}
	if err := e.repos.ledger.AppendSuccess(ctx, entry); err != nil {
		e.l.Error(ctx, "failed to append credit log", err, "operation_id", r.OperationID)
	}
}

func (e *Engine) appendError(ctx context.Context, reservationID, driverID, opID string, cause error) {
	entry := models.CreditErrorEntry{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		DriverID:      driverID,
		OperationID:   opID,
		Error:         cause.Error(),
		CreatedAt:     e.now().UTC(),
	}
	if err := e.repos.ledger.AppendError(ctx, entry); err != nil {
		e.l.Error(ctx, "failed to append credit error", err, "operation_id", opID)
	}
}

package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
)

// TimeoutSweep returns reservations left assigned longer than the reassignment
// delay to pending and frees their drivers. Each reservation is repaired in its
// own transaction; a failure is logged and the sweep continues.
func (s *Service) TimeoutSweep(ctx context.Context) (Report, error) {
	ctx = wrap.WithAction(ctx, types.ActionTimeoutSweep)

	delay := time.Duration(s.params.Get(ctx).ReassignDelayMinutes) * time.Minute
	cutoff := s.now().Add(-delay)

	stale, err := s.repos.reservation.ListAssignedBefore(ctx, cutoff)
	if err != nil {
		return Report{}, wrap.Error(ctx, fmt.Errorf("failed to list assigned reservations: %w", err))
	}

	report := Report{Scanned: len(stale)}
	for _, res := range stale {
		if err := ctx.Err(); err != nil {
			s.l.Warn(ctx, "timeout sweep interrupted", "repaired", report.Repaired, "remaining", len(stale)-report.Repaired-report.Failed)
			return report, err
		}

		rctx := wrap.WithReservationID(ctx, res.ID)
		repaired, err := s.resetExpired(rctx, res.ID, cutoff)
		if err != nil {
			report.Failed++
			s.l.Error(wrap.ErrorCtx(rctx, err), "failed to reset expired assignment", err)
			continue
		}
		if repaired {
			report.Repaired++
		}
	}

	metrics.RecordRepairs(types.ActionTimeoutSweep, report.Repaired)
	return report, nil
}

func (s *Service) resetExpired(ctx context.Context, reservationID string, cutoff time.Time) (bool, error) {
	var (
		reset    bool
		released *models.Driver
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		res, err := s.repos.reservation.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		// the ride may have been completed or reassigned since it was listed
		if res.Status != types.StatusAssigned || res.AssignedAt == nil || !res.AssignedAt.Before(cutoff) {
			return nil
		}

		driverID, _ := res.AssignedDriver()
		if driverID != "" {
			driver, err := s.repos.driver.GetForUpdate(ctx, driverID)
			switch {
			case errors.Is(err, types.ErrDriverNotFound):
			case err != nil:
				return err
			default:
				// a driver already linked to another ride keeps that link
				if booking, ok := driver.BookingID(); !ok || booking == reservationID {
					if err := s.repos.driver.Release(ctx, driverID, false); err != nil {
						return fmt.Errorf("failed to release driver: %w", err)
					}
					released = driver
				}
			}
		}

		if reset, err = s.repos.reservation.ResetToPending(ctx, reservationID, driverID); err != nil {
			return fmt.Errorf("failed to reset reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, wrap.Error(ctx, err)
	}

	if reset && released != nil {
		s.notifier.Notify(wrap.WithDriverID(ctx, released.ID), models.DriverNotification(released, types.NotifyRideWithdrawn,
			"Ride withdrawn", "Ride withdrawn (timeout)", reservationID))
	}
	return reset, nil
}

// ConsistencySweep makes both booking links of every driver agree. The first
// link wins when set, otherwise the second; drivers with neither are skipped.
func (s *Service) ConsistencySweep(ctx context.Context) (Report, error) {
	ctx = wrap.WithAction(ctx, types.ActionConsistencySweep)

	drivers, err := s.repos.driver.ListLinkMismatches(ctx)
	if err != nil {
		return Report{}, wrap.Error(ctx, fmt.Errorf("failed to list drivers: %w", err))
	}

	report := Report{Scanned: len(drivers)}
	for i := range drivers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		d := &drivers[i]
		resolved, ok := d.BookingID()
		if !ok {
			continue
		}

		dctx := wrap.WithDriverID(ctx, d.ID)
		if err := s.repos.driver.SetBookingLinks(dctx, d.ID, resolved); err != nil {
			report.Failed++
			s.l.Error(dctx, "failed to repair booking links", err)
			continue
		}
		report.Repaired++
	}

	metrics.RecordRepairs(types.ActionConsistencySweep, report.Repaired)
	return report, nil
}

// InactivitySweep takes silent drivers offline and sends one admin notification
// listing them.
func (s *Service) InactivitySweep(ctx context.Context) (Report, error) {
	ctx = wrap.WithAction(ctx, types.ActionInactivitySweep)

	now := s.now()
	cutoff := now.Add(-s.cfg.InactivityThreshold)

	drivers, err := s.repos.driver.ListActive(ctx)
	if err != nil {
		return Report{}, wrap.Error(ctx, fmt.Errorf("failed to list active drivers: %w", err))
	}

	var (
		ids     []string
		entries []map[string]any
		names   []string
	)
	for i := range drivers {
		d := &drivers[i]
		seen := d.LastSeen()
		if seen == nil || !seen.Before(cutoff) {
			continue
		}
		ids = append(ids, d.ID)
		names = append(names, d.FullName())
		entries = append(entries, map[string]any{
			"id":          d.ID,
			"name":        d.FullName(),
			"last_update": seen.UTC(),
			"status":      string(d.Status),
		})
	}

	report := Report{Scanned: len(drivers)}
	if len(ids) == 0 {
		return report, nil
	}

	n, err := s.repos.driver.MarkInactive(ctx, ids, now.UTC())
	if err != nil {
		return report, wrap.Error(ctx, fmt.Errorf("failed to mark drivers offline: %w", err))
	}
	report.Repaired = int(n)

	note := models.AdminNotification(types.NotifyInactiveDrivers,
		"Inactive drivers",
		fmt.Sprintf("%d inactive drivers: %s", len(ids), strings.Join(names, ", ")),
		"")
	note.Data = map[string]any{"count": len(ids), "drivers": entries}
	s.notifier.Notify(ctx, note)

	metrics.RecordRepairs(types.ActionInactivitySweep, report.Repaired)
	return report, nil
}

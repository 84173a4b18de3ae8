package settlement

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/shopspring/decimal"
)

// RecoverMissed credits every completed, validated, uncredited reservation.
// Each one runs in its own transaction; a failure is reported and the batch goes on.
func (e *Engine) RecoverMissed(ctx context.Context, caller models.Caller) (*models.RecoveryReport, error) {
	ctx = wrap.WithAction(ctx, types.ActionCreditRecovery)
	if !caller.Authenticated {
		return nil, wrap.Error(ctx, types.ErrUnauthenticated)
	}

	pending, err := e.repos.reservation.ListUncredited(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list uncredited reservations: %w", err))
	}

	report := &models.RecoveryReport{Success: true, Details: []models.RecoveryItem{}}
	if len(pending) == 0 {
		report.Message = "No missed credit found"
		return report, nil
	}

	for _, res := range pending {
		item := models.RecoveryItem{ReservationID: res.ID}

		result, err := e.Credit(ctx, res.ID, "", types.CreditVersionRecovery)
		switch {
		case err != nil:
			item.Error = err.Error()
		case result.Outcome == OutcomeNoop:
			item.Skipped = result.Reason
		default:
			amount := result.Split.Driver
			item.Success = true
			item.Amount = &amount
			report.Count++
		}
		report.Details = append(report.Details, item)
	}

	metrics.RecordRepairs(types.ActionCreditRecovery, report.Count)
	report.Message = fmt.Sprintf("%d/%d credits recovered", report.Count, len(pending))
	e.l.Info(ctx, "credit recovery finished", "recovered", report.Count, "candidates", len(pending))

	return report, nil
}

// AuditDuplicates reports reservations with more than one successful credit
// among the most recent ledger entries. It never writes.
func (e *Engine) AuditDuplicates(ctx context.Context, caller models.Caller) (*models.DuplicateReport, error) {
	ctx = wrap.WithAction(ctx, types.ActionDuplicateAudit)
	if !caller.Authenticated {
		return nil, wrap.Error(ctx, types.ErrUnauthenticated)
	}

	entries, err := e.repos.ledger.RecentSuccesses(ctx, e.cfg.AuditScanLimit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to read credit logs: %w", err))
	}

	dups := FindDuplicates(entries)
	report := &models.DuplicateReport{
		Success:        true,
		DuplicateCount: len(dups),
		Duplicates:     dups,
	}
	if len(dups) == 0 {
		report.Message = "No duplicate detected"
		return report, nil
	}

	report.Message = fmt.Sprintf("%d duplicates detected", len(dups))
	e.l.Warn(ctx, "duplicate credits detected", "count", len(dups))
	return report, nil
}

// FindDuplicates groups successful entries by reservation, in first-seen order,
// and keeps groups with more than one entry.
func FindDuplicates(entries []models.CreditLogEntry) []models.DuplicateCredit {
	var order []string
	groups := make(map[string][]models.CreditLogEntry)
	for _, entry := range entries {
		if !entry.Success {
			continue
		}
		if _, seen := groups[entry.ReservationID]; !seen {
			order = append(order, entry.ReservationID)
		}
		groups[entry.ReservationID] = append(groups[entry.ReservationID], entry)
	}

	dups := []models.DuplicateCredit{}
	for _, id := range order {
		group := groups[id]
		if len(group) < 2 {
			continue
		}
		total := decimal.Zero
		for _, g := range group {
			total = total.Add(g.DriverAmount)
		}
		dups = append(dups, models.DuplicateCredit{
			ReservationID: id,
			Count:         len(group),
			Total:         total,
			Details:       group,
		})
	}
	return dups
}

package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
	"github.com/google/uuid"
)

const cleanupLogKind = "cleanup_position_history"

// CleanupHistory deletes position samples older than the retention window in
// bounded batches until a batch comes back empty, then records a system log.
func (s *Service) CleanupHistory(ctx context.Context) (int64, error) {
	ctx = wrap.WithAction(ctx, types.ActionHistoryCleanup)
	cutoff := s.now().Add(-s.cfg.HistoryRetention).UTC()

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			s.l.Warn(ctx, "history cleanup interrupted", "deleted", total)
			return total, err
		}

		n, err := s.repos.history.DeleteOlderThan(ctx, cutoff, s.cfg.CleanupBatchSize)
		if err != nil {
			return total, wrap.Error(ctx, fmt.Errorf("failed to delete position batch: %w", err))
		}
		if n == 0 {
			break
		}
		total += n
		s.l.Debug(ctx, "position batch deleted", "deleted", total)
	}

	entry := models.SystemLog{
		ID:   uuid.NewString(),
		Kind: cleanupLogKind,
		Data: map[string]any{
			"deleted_count": total,
			"cutoff_date":   cutoff,
		},
		CreatedAt: s.now().UTC(),
	}
	if err := s.repos.syslog.AppendLog(ctx, entry); err != nil {
		s.l.Error(ctx, "failed to write cleanup log", err)
	}

	metrics.RecordRepairs(types.ActionHistoryCleanup, int(total))
	s.l.Info(ctx, "history cleanup finished", "deleted", total, "cutoff", cutoff)
	return total, nil
}

// PreviousDay returns the bounds of the calendar day before now in loc.
func PreviousDay(now time.Time, loc *time.Location) (from, to time.Time) {
	local := now.In(loc)
	to = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	from = to.AddDate(0, 0, -1)
	return from, to
}

// DailyRollup aggregates each driver's samples of the previous local day.
// Drivers without samples are skipped.
func (s *Service) DailyRollup(ctx context.Context) (Report, error) {
	ctx = wrap.WithAction(ctx, types.ActionDailyRollup)
	from, to := PreviousDay(s.now(), s.cfg.Location)

	drivers, err := s.repos.history.DriversWithSamples(ctx, from, to)
	if err != nil {
		return Report{}, wrap.Error(ctx, fmt.Errorf("failed to list drivers with samples: %w", err))
	}

	report := Report{Scanned: len(drivers)}
	for _, driverID := range drivers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dctx := wrap.WithDriverID(ctx, driverID)
		samples, err := s.repos.history.Samples(dctx, driverID, from, to)
		if err != nil {
			report.Failed++
			s.l.Error(dctx, "failed to read samples", err)
			continue
		}

		stats, ok := Rollup(driverID, from, samples)
		if !ok {
			continue
		}
		if err := s.repos.daily.UpsertDaily(dctx, stats); err != nil {
			report.Failed++
			s.l.Error(dctx, "failed to store daily stats", err)
			continue
		}
		report.Repaired++
	}

	s.l.Info(ctx, "daily rollup finished", "day", from.Format(time.DateOnly), "drivers", report.Repaired)
	return report, nil
}

// Rollup summarises samples ordered by time. Distance is in km, time in minutes,
// average speed in km/h over the covered time and max speed is the highest
// reported speed converted from m/s to km/h.
func Rollup(driverID string, day time.Time, samples []models.PositionSample) (models.DailyStats, bool) {
	if len(samples) == 0 {
		return models.DailyStats{}, false
	}

	var distance, maxSpeed float64
	var elapsed time.Duration
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		distance += geo.DistanceKm(prev.Lat, prev.Lng, curr.Lat, curr.Lng)
		elapsed += curr.RecordedAt.Sub(prev.RecordedAt)
		if curr.Speed != nil && *curr.Speed > maxSpeed {
			maxSpeed = *curr.Speed
		}
	}

	stats := models.DailyStats{
		DriverID:       driverID,
		Day:            day,
		TotalDistance:  distance,
		TotalTime:      elapsed.Minutes(),
		MaxSpeed:       maxSpeed * 3.6,
		PositionsCount: len(samples),
	}
	if hours := elapsed.Hours(); hours > 0 {
		stats.AverageSpeed = distance / hours
	}
	return stats, true
}

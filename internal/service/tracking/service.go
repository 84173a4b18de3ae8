package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

const (
	weekDays  = 7
	monthDays = 30
)

type Config struct {
	HistoryLimit int
	Location     *time.Location
}

// Service answers read-only questions about driver movement.
type Service struct {
	history HistoryRepo
	daily   DailyStatsRepo
	tx      ReadTx
	cfg     Config
	now     func() time.Time
	l       logger.Logger
}

func New(history HistoryRepo, daily DailyStatsRepo, tx ReadTx, cfg Config, l logger.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 1000
	}
	return &Service{
		history: history,
		daily:   daily,
		tx:      tx,
		cfg:     cfg,
		now:     time.Now,
		l:       l,
	}
}

// History lists a driver's position samples, optionally bounded by time and session.
func (s *Service) History(ctx context.Context, q models.HistoryQuery) ([]models.PositionPoint, error) {
	ctx = wrap.WithDriverID(ctx, q.DriverID)

	if q.DriverID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: driver id is required", types.ErrInvalidArgument))
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: end is before start", types.ErrInvalidArgument))
	}
	q.Limit = s.cfg.HistoryLimit

	points, err := s.history.Query(ctx, q)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to query position history: %w", err))
	}
	if points == nil {
		points = []models.PositionPoint{}
	}
	return points, nil
}

// Stats summarises today from raw samples, and the last week and month from daily rollups.
func (s *Service) Stats(ctx context.Context, driverID string) (*models.TrackingStats, error) {
	ctx = wrap.WithDriverID(ctx, driverID)

	if driverID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: driver id is required", types.ErrInvalidArgument))
	}

	now := s.now().In(s.cfg.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)

	var (
		samples     []models.PositionSample
		week, month []models.DailyStats
	)
	err := s.tx.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if samples, err = s.history.Samples(ctx, driverID, today, now); err != nil {
			return fmt.Errorf("failed to load today's samples: %w", err)
		}
		if week, err = s.daily.ListSince(ctx, driverID, today.AddDate(0, 0, -weekDays)); err != nil {
			return fmt.Errorf("failed to load weekly stats: %w", err)
		}
		if month, err = s.daily.ListSince(ctx, driverID, today.AddDate(0, 0, -monthDays)); err != nil {
			return fmt.Errorf("failed to load monthly stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return &models.TrackingStats{
		Today: FromSamples(samples),
		Week:  Aggregate(week),
		Month: Aggregate(month),
		Total: map[string]any{},
	}, nil
}

// FromSamples computes the distance, mean and max reported speed (km/h) of ascending samples.
func FromSamples(samples []models.PositionSample) models.PeriodStats {
	count := len(samples)
	out := models.PeriodStats{PositionsCount: &count}
	if count == 0 {
		return out
	}

	var speedSum float64
	for i, curr := range samples {
		speed := kmh(curr.Speed)
		speedSum += speed
		if i == 0 {
			continue
		}
		prev := samples[i-1]
		out.TotalDistance += geo.DistanceKm(prev.Lat, prev.Lng, curr.Lat, curr.Lng)
		if speed > out.MaxSpeed {
			out.MaxSpeed = speed
		}
	}
	out.AverageSpeed = speedSum / float64(count)
	return out
}

// Aggregate folds daily rollups into one period.
func Aggregate(days []models.DailyStats) models.PeriodStats {
	var total float64
	out := models.PeriodStats{TotalTime: &total}
	if len(days) == 0 {
		return out
	}

	var speedSum float64
	for _, d := range days {
		out.TotalDistance += d.TotalDistance
		total += d.TotalTime
		speedSum += d.AverageSpeed
		if d.MaxSpeed > out.MaxSpeed {
			out.MaxSpeed = d.MaxSpeed
		}
	}
	out.AverageSpeed = speedSum / float64(len(days))
	return out
}

func kmh(mps *float64) float64 {
	if mps == nil {
		return 0
	}
	return *mps * 3.6
}

package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TrackingRepo owns the telemetry projections: tracking_anomalies, driver_stats
// and daily_tracking_stats.
type TrackingRepo struct {
	db *pgxpool.Pool
}

func NewTrackingRepo(db *pgxpool.Pool) *TrackingRepo {
	return &TrackingRepo{db: db}
}

func (r *TrackingRepo) AppendAnomaly(ctx context.Context, a models.TrackingAnomaly) error {
	const op = "TrackingRepo.AppendAnomaly"
	query := `
		INSERT INTO tracking_anomalies (id, driver_id, reasons, lat, lng, accuracy, speed, position_at, calculated_speed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		a.ID, a.DriverID, a.Reasons,
		a.Position.Lat, a.Position.Lng, a.Position.Accuracy, a.Position.Speed, a.Position.Timestamp,
		a.CalculatedSpeed, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertDriverStats adds the distance increment to the day total, starting a
// new total when the stored day differs.
func (r *TrackingRepo) UpsertDriverStats(ctx context.Context, s models.DriverStats) error {
	const op = "TrackingRepo.UpsertDriverStats"
	query := `
		INSERT INTO driver_stats (driver_id, last_lat, last_lng, last_position_at, last_update, calculated_speed, distance_today, day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date)
		ON CONFLICT (driver_id) DO UPDATE SET
			last_lat = EXCLUDED.last_lat,
			last_lng = EXCLUDED.last_lng,
			last_position_at = EXCLUDED.last_position_at,
			last_update = EXCLUDED.last_update,
			calculated_speed = EXCLUDED.calculated_speed,
			distance_today = CASE
				WHEN driver_stats.day = EXCLUDED.day THEN driver_stats.distance_today + EXCLUDED.distance_today
				ELSE EXCLUDED.distance_today
			END,
			day = EXCLUDED.day`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		s.DriverID, s.LastPosition.Lat, s.LastPosition.Lng, s.LastPosition.Timestamp,
		s.LastUpdate, s.CalculatedSpeed, s.DistanceIncrement, s.Day.Format(dateLayout),
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertDaily writes one driver-day rollup, replacing an earlier run for the same day.
func (r *TrackingRepo) UpsertDaily(ctx context.Context, s models.DailyStats) error {
	const op = "TrackingRepo.UpsertDaily"
	query := `
		INSERT INTO daily_tracking_stats (driver_id, day, total_distance, total_time, average_speed, max_speed, positions_count)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		ON CONFLICT (driver_id, day) DO UPDATE SET
			total_distance = EXCLUDED.total_distance,
			total_time = EXCLUDED.total_time,
			average_speed = EXCLUDED.average_speed,
			max_speed = EXCLUDED.max_speed,
			positions_count = EXCLUDED.positions_count`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		s.DriverID, s.Day.Format(dateLayout), s.TotalDistance, s.TotalTime, s.AverageSpeed, s.MaxSpeed, s.PositionsCount,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSince returns the rollups of a driver on or after the calendar date of since.
func (r *TrackingRepo) ListSince(ctx context.Context, driverID string, since time.Time) ([]models.DailyStats, error) {
	const op = "TrackingRepo.ListSince"
	query := `
		SELECT driver_id, day, total_distance, total_time, average_speed, max_speed, positions_count
		FROM daily_tracking_stats
		WHERE driver_id = $1 AND day >= $2::date
		ORDER BY day`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, driverID, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.DailyStats
	for rows.Next() {
		var s models.DailyStats
		if err := rows.Scan(&s.DriverID, &s.Day, &s.TotalDistance, &s.TotalTime, &s.AverageSpeed, &s.MaxSpeed, &s.PositionsCount); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

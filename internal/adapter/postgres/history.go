package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo is the append-only position_history table.
type HistoryRepo struct {
	db *pgxpool.Pool
}

func NewHistoryRepo(db *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) AppendSample(ctx context.Context, s models.PositionSample) error {
	const op = "HistoryRepo.AppendSample"
	query := `
		INSERT INTO position_history (id, driver_id, session_id, lat, lng, speed, accuracy, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		s.ID, s.DriverID, s.SessionID, s.Lat, s.Lng, s.Speed, s.Accuracy, s.RecordedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Query returns samples matching q in ascending time order, at most q.Limit rows.
func (r *HistoryRepo) Query(ctx context.Context, q models.HistoryQuery) ([]models.PositionPoint, error) {
	const op = "HistoryRepo.Query"

	where := []string{"driver_id = $1"}
	args := []any{q.DriverID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.SessionID != "" {
		add("session_id = $%d", q.SessionID)
	}
	if q.Start != nil {
		add("recorded_at >= $%d", *q.Start)
	}
	if q.End != nil {
		add("recorded_at <= $%d", *q.End)
	}
	args = append(args, q.Limit)

	query := fmt.Sprintf(`
		SELECT lat, lng, speed, accuracy, recorded_at
		FROM position_history
		WHERE %s
		ORDER BY recorded_at ASC
		LIMIT $%d`, strings.Join(where, " AND "), len(args))

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.PositionPoint
	for rows.Next() {
		var p models.PositionPoint
		if err := rows.Scan(&p.Lat, &p.Lng, &p.Speed, &p.Accuracy, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Samples returns a driver's samples in [from, to) in ascending time order.
func (r *HistoryRepo) Samples(ctx context.Context, driverID string, from, to time.Time) ([]models.PositionSample, error) {
	const op = "HistoryRepo.Samples"
	query := `
		SELECT id, driver_id, session_id, lat, lng, speed, accuracy, recorded_at
		FROM position_history
		WHERE driver_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at ASC`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.PositionSample
	for rows.Next() {
		var s models.PositionSample
		if err := rows.Scan(&s.ID, &s.DriverID, &s.SessionID, &s.Lat, &s.Lng, &s.Speed, &s.Accuracy, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// DriversWithSamples lists the drivers that reported at least one sample in [from, to).
func (r *HistoryRepo) DriversWithSamples(ctx context.Context, from, to time.Time) ([]string, error) {
	const op = "HistoryRepo.DriversWithSamples"
	query := `
		SELECT DISTINCT driver_id
		FROM position_history
		WHERE recorded_at >= $1 AND recorded_at < $2
		ORDER BY driver_id`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// DeleteOlderThan removes at most limit samples recorded before cutoff, oldest first.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	const op = "HistoryRepo.DeleteOlderThan"
	query := `
		DELETE FROM position_history
		WHERE id IN (
			SELECT id FROM position_history
			WHERE recorded_at < $1
			ORDER BY recorded_at
			LIMIT $2
		)`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

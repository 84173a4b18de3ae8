package repo

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemRepo writes system_errors and system_logs.
type SystemRepo struct {
	db *pgxpool.Pool
}

func NewSystemRepo(db *pgxpool.Pool) *SystemRepo {
	return &SystemRepo{db: db}
}

func (r *SystemRepo) RecordError(ctx context.Context, e models.SystemError) error {
	const op = "SystemRepo.RecordError"
	query := `
		INSERT INTO system_errors (id, source, reservation_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, e.ID, e.Source, e.ReservationID, e.Message, e.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *SystemRepo) AppendLog(ctx context.Context, l models.SystemLog) error {
	const op = "SystemRepo.AppendLog"
	query := `INSERT INTO system_logs (id, kind, data, created_at) VALUES ($1, $2, $3, $4)`

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	data := l.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, l.ID, l.Kind, data, l.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paramsID = "global"

// ParamsRepo stores the singleton dispatch_params row.
type ParamsRepo struct {
	db *pgxpool.Pool
}

func NewParamsRepo(db *pgxpool.Pool) *ParamsRepo {
	return &ParamsRepo{db: db}
}

func (r *ParamsRepo) Get(ctx context.Context) (models.DispatchParams, error) {
	const op = "ParamsRepo.Get"
	query := `
		SELECT auto_assign, reassign_delay_minutes, search_radius_km, notifications_enabled
		FROM dispatch_params
		WHERE id = $1`

	var p models.DispatchParams
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, paramsID).Scan(
		&p.AutoAssign, &p.ReassignDelayMinutes, &p.SearchRadiusKm, &p.NotificationsEnabled,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DispatchParams{}, types.ErrNotFound
	}
	if err != nil {
		return models.DispatchParams{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Seed writes p unless a document already exists. It reports whether it wrote.
func (r *ParamsRepo) Seed(ctx context.Context, p models.DispatchParams) (bool, error) {
	const op = "ParamsRepo.Seed"
	query := `
		INSERT INTO dispatch_params (id, auto_assign, reassign_delay_minutes, search_radius_km, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query,
		paramsID, p.AutoAssign, p.ReassignDelayMinutes, p.SearchRadiusKm, p.NotificationsEnabled,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

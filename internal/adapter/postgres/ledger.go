package repo

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepo is the append-only settlement ledger: credit_logs and credit_errors.
type LedgerRepo struct {
	db *pgxpool.Pool
}

func NewLedgerRepo(db *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) AppendSuccess(ctx context.Context, e models.CreditLogEntry) error {
	const op = "LedgerRepo.AppendSuccess"
	query := `
		INSERT INTO credit_logs (
			id, reservation_id, driver_id, operation_id,
			price, driver_amount, platform_amount, balance_before, balance_after,
			version, success, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		e.ID, e.ReservationID, e.DriverID, e.OperationID,
		e.Price, e.DriverAmount, e.PlatformAmount, e.BalanceBefore, e.BalanceAfter,
		e.Version, e.Success, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *LedgerRepo) AppendError(ctx context.Context, e models.CreditErrorEntry) error {
	const op = "LedgerRepo.AppendError"
	query := `
		INSERT INTO credit_errors (id, reservation_id, driver_id, operation_id, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		e.ID, e.ReservationID, e.DriverID, e.OperationID, e.Error, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RecentSuccesses returns successful entries, newest first.
func (r *LedgerRepo) RecentSuccesses(ctx context.Context, limit int) ([]models.CreditLogEntry, error) {
	const op = "LedgerRepo.RecentSuccesses"
	query := `
		SELECT id, reservation_id, driver_id, operation_id,
			price, driver_amount, platform_amount, balance_before, balance_after,
			version, success, created_at
		FROM credit_logs
		WHERE success
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.CreditLogEntry
	for rows.Next() {
		var e models.CreditLogEntry
		if err := rows.Scan(
			&e.ID, &e.ReservationID, &e.DriverID, &e.OperationID,
			&e.Price, &e.DriverAmount, &e.PlatformAmount, &e.BalanceBefore, &e.BalanceAfter,
			&e.Version, &e.Success, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

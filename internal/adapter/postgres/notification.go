package repo

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	const op = "NotificationRepo.Save"
	query := `
		INSERT INTO notifications (id, recipient, driver_id, type, title, message, reservation_id, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		n.ID, n.Recipient, n.DriverID, n.Type, n.Title, n.Message, n.ReservationID, n.Data, n.Read, n.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

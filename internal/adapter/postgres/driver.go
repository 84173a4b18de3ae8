package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const driverColumns = `
	id, first_name, last_name, phone, status,
	lat, lng, position_at, position_accuracy, position_speed,
	balance, balance_legacy, current_booking_id, active_reservation_id,
	earnings_day, earnings_week, earnings_month, earnings_total,
	completed_rides, paid_rides, last_activity_at, last_assignment_at, push_token`

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{
		db: db,
	}
}

func (r *DriverRepo) Get(ctx context.Context, id string) (*models.Driver, error) {
	const op = "DriverRepo.Get"
	return r.getOne(ctx, op, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
}

// GetForUpdate locks the driver row until the surrounding transaction ends.
func (r *DriverRepo) GetForUpdate(ctx context.Context, id string) (*models.Driver, error) {
	const op = "DriverRepo.GetForUpdate"
	return r.getOne(ctx, op, `SELECT `+driverColumns+` FROM drivers WHERE id = $1 FOR UPDATE`, id)
}

func (r *DriverRepo) getOne(ctx context.Context, op, query, id string) (*models.Driver, error) {
	d, err := scanDriver(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (r *DriverRepo) ListAvailable(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListAvailable"
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE status = $1 ORDER BY id`

	return r.list(ctx, op, query, types.DriverAvailable)
}

// ListActive returns drivers that are available or on a ride.
func (r *DriverRepo) ListActive(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListActive"
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE status IN ($1, $2) ORDER BY id`

	return r.list(ctx, op, query, types.DriverAvailable, types.DriverOnRide)
}

// ListLinkMismatches returns drivers whose two booking links disagree.
func (r *DriverRepo) ListLinkMismatches(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListLinkMismatches"
	query := `
		SELECT ` + driverColumns + ` FROM drivers
		WHERE NULLIF(current_booking_id, '') IS DISTINCT FROM NULLIF(active_reservation_id, '')
		ORDER BY id`

	return r.list(ctx, op, query)
}

func (r *DriverRepo) list(ctx context.Context, op, query string, args ...any) ([]models.Driver, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// MarkAssigned puts the driver on the ride and sets both booking links.
func (r *DriverRepo) MarkAssigned(ctx context.Context, driverID, reservationID string, at time.Time) error {
	const op = "DriverRepo.MarkAssigned"
	query := `
		UPDATE drivers SET
			status = $2,
			current_booking_id = $3,
			active_reservation_id = $3,
			last_assignment_at = $4,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, driverID, types.DriverOnRide, reservationID, at)
}

// Release makes the driver available and clears both booking links.
// A completed ride also bumps the completed ride counter.
func (r *DriverRepo) Release(ctx context.Context, driverID string, completed bool) error {
	const op = "DriverRepo.Release"
	query := `
		UPDATE drivers SET
			status = $2,
			current_booking_id = NULL,
			active_reservation_id = NULL,
			completed_rides = completed_rides + CASE WHEN $3 THEN 1 ELSE 0 END,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, driverID, types.DriverAvailable, completed)
}

// SetBookingLinks writes the same reservation to both links. An empty id clears them.
func (r *DriverRepo) SetBookingLinks(ctx context.Context, driverID, reservationID string) error {
	const op = "DriverRepo.SetBookingLinks"
	query := `
		UPDATE drivers SET
			current_booking_id = $2,
			active_reservation_id = $2,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, driverID, nullIfEmpty(reservationID))
}

// ApplyCredit stores the new balance under both column names and adds the
// amount to every earnings bucket.
func (r *DriverRepo) ApplyCredit(ctx context.Context, driverID string, c models.DriverCredit) error {
	const op = "DriverRepo.ApplyCredit"
	query := `
		UPDATE drivers SET
			balance = $2,
			balance_legacy = $2,
			earnings_day = earnings_day + $3,
			earnings_week = earnings_week + $3,
			earnings_month = earnings_month + $3,
			earnings_total = earnings_total + $3,
			paid_rides = paid_rides + 1,
			last_credit_at = $4,
			last_credit_amount = $3,
			last_credit_reservation_id = $5,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, driverID, c.NewBalance.String(), c.Amount, c.CreditedAt, c.ReservationID)
}

// UpdatePosition stores the latest fix and counts it as activity.
func (r *DriverRepo) UpdatePosition(ctx context.Context, driverID string, pos models.Position, at time.Time) error {
	const op = "DriverRepo.UpdatePosition"
	query := `
		UPDATE drivers SET
			lat = $2,
			lng = $3,
			position_at = $4,
			position_accuracy = $5,
			position_speed = $6,
			last_activity_at = $7,
			inactivity_detected = FALSE,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, driverID, pos.Lat, pos.Lng, pos.Timestamp, pos.Accuracy, pos.Speed, at)
}

// MarkInactive takes the given drivers offline and returns how many changed.
func (r *DriverRepo) MarkInactive(ctx context.Context, driverIDs []string, at time.Time) (int64, error) {
	const op = "DriverRepo.MarkInactive"
	if len(driverIDs) == 0 {
		return 0, nil
	}
	query := `
		UPDATE drivers SET
			status = $2,
			inactivity_detected = TRUE,
			last_inactivity_check = $3,
			updated_at = now()
		WHERE id = ANY($1) AND status <> $2`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, driverIDs, types.DriverOffline, at)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (r *DriverRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var (
		d                   models.Driver
		lat, lng            *float64
		positionAt          *time.Time
		accuracy, speed     *float64
		currentBooking      *string
		activeReservationID *string
	)
	if err := row.Scan(
		&d.ID, &d.FirstName, &d.LastName, &d.Phone, &d.Status,
		&lat, &lng, &positionAt, &accuracy, &speed,
		&d.Balance, &d.BalanceLegacy, &currentBooking, &activeReservationID,
		&d.EarningsDay, &d.EarningsWeek, &d.EarningsMonth, &d.EarningsTotal,
		&d.CompletedRides, &d.PaidRides, &d.LastActivityAt, &d.LastAssignmentAt, &d.PushToken,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		d.Position = &models.Position{
			Lat:       *lat,
			Lng:       *lng,
			Timestamp: positionAt,
			Accuracy:  accuracy,
			Speed:     speed,
		}
	}
	d.CurrentBookingID = currentBooking
	d.ActiveReservationID = activeReservationID
	return &d, nil
}

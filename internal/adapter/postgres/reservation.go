package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `
	id, status,
	origin_address, origin_lat, origin_lng, origin_approximate,
	destination_address, destination_lat, destination_lng,
	client_name, client_phone, client_email, estimated_price,
	driver_id, driver_name, driver_phone, assignment_mode, assigned_at, assigned_by,
	driver_distance_m, driver_eta_min,
	payment_validated, driver_credited, credit, tracking,
	rejected_drivers, assignment_attempts,
	completed_at, cancelled_at, cancel_reason, cancelled_by,
	created_at, updated_at`

type ReservationRepo struct {
	db *pgxpool.Pool
}

func NewReservationRepo(db *pgxpool.Pool) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	const op = "ReservationRepo.Create"
	query := `
		INSERT INTO reservations (
			id, status,
			origin_address, origin_lat, origin_lng, origin_approximate,
			destination_address, destination_lat, destination_lng,
			client_name, client_phone, client_email, estimated_price,
			rejected_drivers, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	originLat, originLng := splitLocation(res.Origin)
	destLat, destLng := splitLocation(res.Destination)
	rejected := res.RejectedDrivers
	if rejected == nil {
		rejected = []string{}
	}

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		res.ID, res.Status,
		res.OriginAddress, originLat, originLng, res.OriginApproximate,
		res.DestinationAddress, destLat, destLng,
		res.ClientName, res.ClientPhone, res.ClientEmail, res.EstimatedPrice,
		rejected, res.CreatedAt, res.UpdatedAt,
	); err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%s: reservation %s already exists: %w", op, res.ID, types.ErrInvalidArgument)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *ReservationRepo) Get(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "ReservationRepo.Get"
	return r.getOne(ctx, op, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

// GetForUpdate locks the reservation row until the surrounding transaction ends.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "ReservationRepo.GetForUpdate"
	return r.getOne(ctx, op, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepo) getOne(ctx context.Context, op, query, id string) (*models.Reservation, error) {
	res, err := scanReservation(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrReservationNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListAssignedBefore returns assigned reservations whose assignment is older than cutoff.
func (r *ReservationRepo) ListAssignedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	const op = "ReservationRepo.ListAssignedBefore"
	query := `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = $1 AND assigned_at < $2
		ORDER BY assigned_at`

	return r.list(ctx, op, query, types.StatusAssigned, cutoff)
}

// ListUncredited returns completed, paid reservations whose driver was never credited.
func (r *ReservationRepo) ListUncredited(ctx context.Context) ([]models.Reservation, error) {
	const op = "ReservationRepo.ListUncredited"
	query := `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = $1 AND payment_validated AND NOT driver_credited
		ORDER BY created_at`

	return r.list(ctx, op, query, types.StatusCompleted)
}

func (r *ReservationRepo) list(ctx context.Context, op, query string, args ...any) ([]models.Reservation, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *ReservationRepo) SetOrigin(ctx context.Context, id string, origin models.Location, approximate bool) error {
	const op = "ReservationRepo.SetOrigin"
	query := `
		UPDATE reservations SET
			origin_lat = $2,
			origin_lng = $3,
			origin_approximate = $4,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, id, origin.Lat, origin.Lng, approximate)
}

// Assign writes the assignment record and moves the reservation to assigned.
func (r *ReservationRepo) Assign(ctx context.Context, id string, a models.Assignment) error {
	const op = "ReservationRepo.Assign"
	query := `
		UPDATE reservations SET
			status = $2,
			driver_id = $3,
			driver_name = $4,
			driver_phone = $5,
			assignment_mode = $6,
			assigned_at = $7,
			assigned_by = $8,
			driver_distance_m = $9,
			driver_eta_min = $10,
			updated_at = now()
		WHERE id = $1`

	err := r.exec(ctx, op, query, id, types.StatusAssigned,
		a.DriverID, a.DriverName, a.DriverPhone, a.Mode, a.AssignedAt, a.AssignedBy, a.DistanceM, a.ETAMin)
	if postgres.IsForeignKeyViolation(err) {
		return types.ErrDriverNotFound
	}
	return err
}

func (r *ReservationRepo) Complete(ctx context.Context, id string, at time.Time) error {
	const op = "ReservationRepo.Complete"
	query := `UPDATE reservations SET status = $2, completed_at = $3, updated_at = now() WHERE id = $1`

	return r.exec(ctx, op, query, id, types.StatusCompleted, at)
}

func (r *ReservationRepo) Cancel(ctx context.Context, id, reason, actor string, at time.Time) error {
	const op = "ReservationRepo.Cancel"
	query := `
		UPDATE reservations SET
			status = $2,
			cancelled_at = $3,
			cancel_reason = $4,
			cancelled_by = $5,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, id, types.StatusCancelled, at, reason, actor)
}

// ResetToPending releases a reservation still assigned to driverID back to the
// pending pool. An empty driverID matches a reservation with no driver link.
// It reports false when the reservation moved on in the meantime.
func (r *ReservationRepo) ResetToPending(ctx context.Context, id, driverID string) (bool, error) {
	const op = "ReservationRepo.ResetToPending"
	query := `
		UPDATE reservations SET
			status = $3,
			driver_id = NULL,
			driver_name = '',
			driver_phone = '',
			assignment_mode = '',
			assigned_at = NULL,
			assigned_by = '',
			driver_distance_m = 0,
			driver_eta_min = 0,
			tracking = NULL,
			rejected_drivers = CASE
				WHEN $2 = '' OR $2 = ANY(rejected_drivers) THEN rejected_drivers
				ELSE array_append(rejected_drivers, $2)
			END,
			assignment_attempts = assignment_attempts + 1,
			updated_at = now()
		WHERE id = $1 AND status = $4 AND COALESCE(driver_id, '') = $2`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, driverID, types.StatusPending, types.StatusAssigned)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReservationRepo) SetPaymentValidated(ctx context.Context, id string, at time.Time) error {
	const op = "ReservationRepo.SetPaymentValidated"
	query := `
		UPDATE reservations SET
			payment_validated = TRUE,
			payment_validated_at = $2,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, id, at)
}

// MarkCredited stamps the settlement record on the reservation.
func (r *ReservationRepo) MarkCredited(ctx context.Context, id string, rec models.CreditRecord) error {
	const op = "ReservationRepo.MarkCredited"
	query := `
		UPDATE reservations SET
			driver_credited = TRUE,
			credit = $2,
			updated_at = now()
		WHERE id = $1`

	return r.exec(ctx, op, query, id, rec)
}

// UpdateTracking refreshes the live tracking projection and adds distanceIncrementM
// to the distance travelled so far.
func (r *ReservationRepo) UpdateTracking(ctx context.Context, id string, pos models.Position, at time.Time, distanceIncrementM float64, eta *time.Time) error {
	const op = "ReservationRepo.UpdateTracking"
	query := `
		UPDATE reservations SET
			tracking = jsonb_build_object(
				'driver_position', $2::jsonb,
				'updated_at', $3::timestamptz,
				'real_distance_m', COALESCE((tracking->>'real_distance_m')::double precision, 0) + $4::double precision,
				'estimated_arrival', $5::timestamptz
			),
			updated_at = now()
		WHERE id = $1`

	position, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("%s: marshal position: %w", op, err)
	}
	return r.exec(ctx, op, query, id, string(position), at, distanceIncrementM, eta)
}

func (r *ReservationRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReservationNotFound
	}
	return nil
}

func scanReservation(row pgx.Row) (*models.Reservation, error) {
	var (
		res                models.Reservation
		originLat, origLng *float64
		destLat, destLng   *float64
		driverID           *string
		credit, tracking   []byte
	)
	if err := row.Scan(
		&res.ID, &res.Status,
		&res.OriginAddress, &originLat, &origLng, &res.OriginApproximate,
		&res.DestinationAddress, &destLat, &destLng,
		&res.ClientName, &res.ClientPhone, &res.ClientEmail, &res.EstimatedPrice,
		&driverID, &res.DriverName, &res.DriverPhone, &res.AssignmentMode, &res.AssignedAt, &res.AssignedBy,
		&res.DriverDistanceM, &res.DriverETAMin,
		&res.PaymentValidated, &res.DriverCredited, &credit, &tracking,
		&res.RejectedDrivers, &res.AssignmentAttempts,
		&res.CompletedAt, &res.CancelledAt, &res.CancelReason, &res.CancelledBy,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}

	res.Origin = joinLocation(originLat, origLng)
	res.Destination = joinLocation(destLat, destLng)
	res.DriverID = nullIfEmpty(derefString(driverID))

	if len(credit) > 0 {
		res.Credit = &models.CreditRecord{}
		if err := json.Unmarshal(credit, res.Credit); err != nil {
			return nil, fmt.Errorf("decode credit: %w", err)
		}
	}
	if len(tracking) > 0 {
		res.Tracking = &models.LiveTracking{}
		if err := json.Unmarshal(tracking, res.Tracking); err != nil {
			return nil, fmt.Errorf("decode tracking: %w", err)
		}
	}
	return &res, nil
}

func splitLocation(l *models.Location) (lat, lng *float64) {
	if l == nil {
		return nil, nil
	}
	return &l.Lat, &l.Lng
}

func joinLocation(lat, lng *float64) *models.Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &models.Location{Lat: *lat, Lng: *lng}
}

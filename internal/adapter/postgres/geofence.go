package repo

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GeofenceRepo struct {
	db *pgxpool.Pool
}

func NewGeofenceRepo(db *pgxpool.Pool) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

func (r *GeofenceRepo) ActiveZones(ctx context.Context) ([]models.GeofenceZone, error) {
	const op = "GeofenceRepo.ActiveZones"
	query := `
		SELECT id, name, kind, center_lat, center_lng, radius_m
		FROM geofence_zones
		WHERE active
		ORDER BY id`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.GeofenceZone
	for rows.Next() {
		var z models.GeofenceZone
		if err := rows.Scan(&z.ID, &z.Name, &z.Kind, &z.Center.Lat, &z.Center.Lng, &z.RadiusM); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *GeofenceRepo) AppendGeofenceEvent(ctx context.Context, e models.GeofenceEvent) error {
	const op = "GeofenceRepo.AppendGeofenceEvent"
	query := `
		INSERT INTO geofence_events (id, driver_id, lat, lng, alerts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		e.ID, e.DriverID, e.Position.Lat, e.Position.Lng, e.Alerts, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

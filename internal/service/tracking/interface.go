package tracking

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

type HistoryRepo interface {
	// Query returns samples ordered by time ascending, at most q.Limit rows.
	Query(ctx context.Context, q models.HistoryQuery) ([]models.PositionPoint, error)
	Samples(ctx context.Context, driverID string, from, to time.Time) ([]models.PositionSample, error)
}

type DailyStatsRepo interface {
	// ListSince returns the rollups whose day is on or after the local date of since.
	ListSince(ctx context.Context, driverID string, since time.Time) ([]models.DailyStats, error)
}

// ReadTx runs a group of reads against one snapshot.
type ReadTx interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

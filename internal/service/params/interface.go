package params

import (
	"context"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

// Store reads the singleton dispatch parameters document.
// It returns types.ErrNotFound when no document has been written yet.
type Store interface {
	Get(ctx context.Context) (models.DispatchParams, error)
}

// Cache keeps a short-lived copy of the document.
// A miss is reported as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context) (p models.DispatchParams, ok bool, err error)
	Set(ctx context.Context, p models.DispatchParams, ttl time.Duration) error
}

package params

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

// Provider serves dispatch parameters and never fails its caller.
type Provider struct {
	store Store
	cache Cache
	ttl   time.Duration
	l     logger.Logger
}

// New returns a provider. cache may be nil when no cache backend is configured.
func New(store Store, cache Cache, ttl time.Duration, l logger.Logger) *Provider {
	return &Provider{
		store: store,
		cache: cache,
		ttl:   ttl,
		l:     l,
	}
}

// Get returns the stored parameters, or the defaults when the document is
// missing or cannot be read.
func (p *Provider) Get(ctx context.Context) models.DispatchParams {
	if p.cache != nil {
		cached, ok, err := p.cache.Get(ctx)
		if err != nil {
			p.l.Warn(ctx, "params cache read failed", "error", err.Error())
		}
		if ok {
			return cached
		}
	}

	params, err := p.store.Get(ctx)
	switch {
	case errors.Is(err, types.ErrNotFound):
		params = models.DefaultDispatchParams()
	case err != nil:
		p.l.Error(ctx, "failed to read dispatch params, using defaults", err)
		// not cached so the next call retries the store
		return models.DefaultDispatchParams()
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, params, p.ttl); err != nil {
			p.l.Warn(ctx, "params cache write failed", "error", err.Error())
		}
	}

	return params
}

package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
)

const probeTimeout = 2 * time.Second

// Probe reports whether one dependency is reachable.
type Probe func(ctx context.Context) error

type Health struct {
	serviceName string
	probes      map[string]Probe
	started     time.Time
	log         logger.Logger
}

func NewHealth(serviceName string, probes map[string]Probe, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		probes:      probes,
		started:     time.Now(),
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports the service mode, uptime and the state of each dependency. Returns 503 when one is down.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "available", http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			h.log.Warn(ctx, "dependency is down", "dependency", name, "error", err.Error())
			deps[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	response := envelope{
		"status":       status,
		"service":      h.serviceName,
		"uptime":       time.Since(h.started).Round(time.Second).String(),
		"dependencies": deps,
	}
	if err := writeJSON(w, code, response, nil); err != nil {
		h.log.Error(ctx, "healthcheck", err)
	}
}

package server

import (
	"net/http"

	_ "github.com/Temutjin2k/dispatch-engine/docs"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerInstance = "dispatch"

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)
	a.mux.Handle("GET /metrics", promhttp.Handler())

	if a.mode == types.APIService {
		a.setupDispatchRoutes()
		a.mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName(swaggerInstance)))
	}
}

// setupDispatchRoutes setups routes for the dispatch api
func (a *API) setupDispatchRoutes() {
	r, m := a.routes, a.m

	// Reservations
	a.mux.HandleFunc("POST /reservations", r.reservation.Create)
	a.mux.Handle("POST /reservations/{reservation_id}/assign", m.RequireAuth(r.reservation.AssignDriver))
	a.mux.Handle("POST /reservations/{reservation_id}/complete", m.RequireAuth(r.reservation.Complete))
	a.mux.Handle("POST /reservations/{reservation_id}/cancel", m.RequireAuth(r.reservation.Cancel))
	a.mux.Handle("POST /reservations/{reservation_id}/payment", m.RequireAuth(r.reservation.ValidatePayment))

	// Driver telemetry and tracking
	a.mux.HandleFunc("POST /drivers/{driver_id}/position", r.driver.UpdatePosition)
	a.mux.HandleFunc("GET /drivers/{driver_id}/tracking/history", r.driver.History)
	a.mux.HandleFunc("GET /drivers/{driver_id}/tracking/stats", r.driver.Stats)

	// Settlement recovery
	a.mux.Handle("POST /admin/credits/recover", m.RequireAuth(r.admin.RecoverCredits))
	a.mux.Handle("GET /admin/credits/duplicates", m.RequireAuth(r.admin.DuplicateCredits))

	if r.stream != nil {
		a.mux.HandleFunc("GET /ws/tracking/{driver_id}", r.stream.HandleWS)
	}
}

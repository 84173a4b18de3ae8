package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Temutjin2k/dispatch-engine/config"
	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/handler"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/assignment"
	"github.com/Temutjin2k/dispatch-engine/internal/service/auth"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

const adminToken = "desk-token"

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, authorization, admin string) (models.Caller, error) {
	switch {
	case admin == adminToken:
		return models.Caller{Authenticated: true, Identity: types.AdminIdentity, Admin: true}, nil
	case admin != "":
		return models.Caller{}, auth.ErrInvalidToken
	case authorization == "Bearer good":
		return models.Caller{Authenticated: true, Identity: "ops@example.com"}, nil
	case authorization != "":
		return models.Caller{}, auth.ErrInvalidToken
	}
	return models.Caller{}, nil
}

type fakeServices struct {
	mu sync.Mutex

	created    []models.NewReservation
	assignErr  error
	completeFn func(reservationID, driverID string) error
	cancelled  []string
	lastCaller models.Caller
	positions  []models.Position
	history    []models.HistoryQuery
}

func (f *fakeServices) Create(_ context.Context, in models.NewReservation) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return &models.Reservation{ID: "res-1", Status: types.StatusPending, ClientName: in.ClientName}, nil
}

func (f *fakeServices) ValidatePayment(_ context.Context, caller models.Caller, id string) (*models.Reservation, error) {
	f.lastCaller = caller
	return &models.Reservation{ID: id, PaymentValidated: true}, nil
}

func (f *fakeServices) ManualAssign(_ context.Context, caller models.Caller, reservationID, driverID string) (*assignment.ManualResult, error) {
	f.lastCaller = caller
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	return &assignment.ManualResult{
		Success: true,
		Message: "Awa Diop assigned",
		Driver:  assignment.AssignedDriver{Name: "Awa Diop", Phone: "+221700000000", DistanceKm: 1.2},
	}, nil
}

func (f *fakeServices) Complete(_ context.Context, _ models.Caller, reservationID, driverID string) error {
	if f.completeFn != nil {
		return f.completeFn(reservationID, driverID)
	}
	return nil
}

func (f *fakeServices) Cancel(_ context.Context, _ models.Caller, reservationID, reason string) error {
	f.cancelled = append(f.cancelled, reservationID+":"+reason)
	return nil
}

func (f *fakeServices) UpdatePosition(_ context.Context, driverID, sessionID string, pos models.Position) (*models.PositionSample, error) {
	f.positions = append(f.positions, pos)
	return &models.PositionSample{ID: "s1", DriverID: driverID, SessionID: sessionID, Lat: pos.Lat, Lng: pos.Lng}, nil
}

func (f *fakeServices) History(_ context.Context, q models.HistoryQuery) ([]models.PositionPoint, error) {
	f.history = append(f.history, q)
	return []models.PositionPoint{{Lat: 14.7, Lng: -17.4}}, nil
}

func (f *fakeServices) Stats(context.Context, string) (*models.TrackingStats, error) {
	return &models.TrackingStats{Total: map[string]any{}}, nil
}

func (f *fakeServices) RecoverMissed(_ context.Context, caller models.Caller) (*models.RecoveryReport, error) {
	f.lastCaller = caller
	return &models.RecoveryReport{Success: true, Message: "nothing to recover", Details: []models.RecoveryItem{}}, nil
}

func (f *fakeServices) AuditDuplicates(context.Context, models.Caller) (*models.DuplicateReport, error) {
	return &models.DuplicateReport{Success: true, Message: "no duplicates", Duplicates: []models.DuplicateCredit{}}, nil
}

func newTestAPI(t *testing.T, f *fakeServices) http.Handler {
	t.Helper()

	cfg := config.Config{Mode: types.APIService}
	cfg.Services.APIPort = "0"

	api, err := New(cfg, Services{
		Reservations: f,
		Assignment:   f,
		Ingest:       f,
		Tracking:     f,
		Credits:      f,
	}, fakeAuth{}, logger.New(io.Discard, "test", logger.LevelError))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return api.Handler()
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateReservation(t *testing.T) {
	f := &fakeServices{}
	h := newTestAPI(t, f)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantPrice string
	}{
		{
			name:      "formatted price",
			body:      `{"origin_address":"Plateau","destination_address":"Almadies","client_name":"Fatou","client_phone":"+221770000000","estimated_price":"4 500 FCFA"}`,
			wantCode:  http.StatusCreated,
			wantPrice: "4 500 FCFA",
		},
		{
			name:      "numeric price",
			body:      `{"origin_address":"Plateau","destination_address":"Almadies","client_name":"Fatou","client_phone":"+221770000000","estimated_price":4500,"origin":{"lat":14.67,"lng":-17.43}}`,
			wantCode:  http.StatusCreated,
			wantPrice: "4500",
		},
		{
			name:     "missing client name",
			body:     `{"origin_address":"Plateau","destination_address":"Almadies","client_phone":"+221770000000"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "origin out of range",
			body:     `{"origin_address":"Plateau","destination_address":"Almadies","client_name":"Fatou","client_phone":"1","origin":{"lat":95,"lng":0}}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "malformed json",
			body:     `{"origin_address":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.created)
			rec := do(h, http.MethodPost, "/reservations", tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				if len(f.created) != before {
					t.Fatal("service must not be called for an invalid request")
				}
				return
			}
			if got := f.created[len(f.created)-1].EstimatedPrice; got != tt.wantPrice {
				t.Fatalf("expected price %q, got %q", tt.wantPrice, got)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("expected a request id header")
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		setup    func(f *fakeServices)
		body     string
		wantCode int
	}{
		{
			name:     "anonymous is rejected",
			path:     "/reservations/res-1/assign",
			body:     `{"driver_id":"drv-1"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid bearer is rejected",
			path:     "/reservations/res-1/assign",
			headers:  map[string]string{"Authorization": "Bearer bad"},
			body:     `{"driver_id":"drv-1"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "admin token assigns",
			path:     "/reservations/res-1/assign",
			headers:  map[string]string{"X-Admin-Token": adminToken},
			body:     `{"driver_id":"drv-1"}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "busy driver is a precondition failure",
			path:     "/reservations/res-1/assign",
			headers:  map[string]string{"Authorization": "Bearer good"},
			setup:    func(f *fakeServices) { f.assignErr = types.ErrDriverBusy },
			body:     `{"driver_id":"drv-1"}`,
			wantCode: http.StatusPreconditionFailed,
		},
		{
			name:     "missing driver id",
			path:     "/reservations/res-1/assign",
			headers:  map[string]string{"Authorization": "Bearer good"},
			body:     `{}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "unknown reservation on complete",
			path:    "/reservations/missing/complete",
			headers: map[string]string{"Authorization": "Bearer good"},
			setup: func(f *fakeServices) {
				f.completeFn = func(string, string) error { return types.ErrReservationNotFound }
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "cancel without body",
			path:     "/reservations/res-1/cancel",
			headers:  map[string]string{"Authorization": "Bearer good"},
			wantCode: http.StatusOK,
		},
		{
			name:     "payment validation",
			path:     "/reservations/res-1/payment",
			headers:  map[string]string{"Authorization": "Bearer good"},
			wantCode: http.StatusOK,
		},
		{
			name:     "credit recovery",
			path:     "/admin/credits/recover",
			headers:  map[string]string{"X-Admin-Token": adminToken},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeServices{}
			if tt.setup != nil {
				tt.setup(f)
			}
			h := newTestAPI(t, f)

			rec := do(h, http.MethodPost, tt.path, tt.body, tt.headers)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCallerReachesService(t *testing.T) {
	f := &fakeServices{}
	h := newTestAPI(t, f)

	rec := do(h, http.MethodPost, "/reservations/res-1/assign", `{"driver_id":"drv-1"}`, map[string]string{"Authorization": "Bearer good"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !f.lastCaller.Authenticated || f.lastCaller.Identity != "ops@example.com" {
		t.Fatalf("unexpected caller %+v", f.lastCaller)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "Awa Diop assigned" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCancelReasonIsForwarded(t *testing.T) {
	f := &fakeServices{}
	h := newTestAPI(t, f)

	rec := do(h, http.MethodPost, "/reservations/res-9/cancel", `{"reason":"client no-show"}`, map[string]string{"X-Admin-Token": adminToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(f.cancelled) != 1 || f.cancelled[0] != "res-9:client no-show" {
		t.Fatalf("unexpected cancel calls %v", f.cancelled)
	}
}

func TestDriverRoutes(t *testing.T) {
	f := &fakeServices{}
	h := newTestAPI(t, f)

	rec := do(h, http.MethodPost, "/drivers/drv-1/position", `{"lat":14.7,"lng":-17.4,"speed":8.5,"session_id":"sess-1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.positions) != 1 || *f.positions[0].Speed != 8.5 {
		t.Fatalf("unexpected positions %v", f.positions)
	}

	rec = do(h, http.MethodPost, "/drivers/drv-1/position", `{"lat":91,"lng":0}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/drivers/drv-1/tracking/history?start=1767225600000&end=2026-01-02T00:00:00Z&session_id=sess-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["count"] != float64(1) {
		t.Fatalf("unexpected history body %v", body)
	}
	q := f.history[0]
	if q.DriverID != "drv-1" || q.SessionID != "sess-1" || q.Start == nil || q.End == nil || !q.Start.Before(*q.End) {
		t.Fatalf("unexpected query %+v", q)
	}

	rec = do(h, http.MethodGet, "/drivers/drv-1/tracking/history?start=yesterday", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/drivers/drv-1/tracking/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthOnWorker(t *testing.T) {
	cfg := config.Config{Mode: types.WorkerService}
	api, err := New(cfg, Services{}, nil, logger.New(io.Discard, "test", logger.LevelError))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := do(api.Handler(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(api.Handler(), http.MethodPost, "/reservations", `{}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("worker must not expose dispatch routes, got %d", rec.Code)
	}
}

func TestHealthReportsDependencies(t *testing.T) {
	cfg := config.Config{Mode: types.SchedulerService}
	probes := map[string]handler.Probe{
		"postgres": func(context.Context) error { return nil },
		"rabbitmq": func(context.Context) error { return errors.New("connection refused") },
	}
	api, err := New(cfg, Services{Probes: probes}, nil, logger.New(io.Discard, "test", logger.LevelError))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := do(api.Handler(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "degraded" || body["service"] != string(types.SchedulerService) {
		t.Fatalf("unexpected body %v", body)
	}
	deps, _ := body["dependencies"].(map[string]any)
	if deps["postgres"] != "up" || deps["rabbitmq"] != "down" {
		t.Fatalf("unexpected dependencies %v", deps)
	}
}

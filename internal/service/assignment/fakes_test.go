package assignment

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/shopspring/decimal"
)

// serialTx runs transactions one at a time, which is what row locks give
// two transactions touching the same driver.
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type memStore struct {
	mu           sync.Mutex
	reservations map[string]models.Reservation
	drivers      map[string]models.Driver
	released     []string
	sysErrors    []models.SystemError
	notes        []models.Notification
	staleList    []models.Driver
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[string]models.Reservation{},
		drivers:      map[string]models.Driver{},
	}
}

func (m *memStore) addDriver(d models.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[d.ID] = d
}

func (m *memStore) addReservation(r models.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
}

func (m *memStore) driver(id string) models.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drivers[id]
}

func (m *memStore) reservation(id string) models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[id]
}

/* reservation repo */

type resRepo struct{ m *memStore }

func (r resRepo) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res, ok := r.m.reservations[id]
	if !ok {
		return nil, types.ErrReservationNotFound
	}
	return &res, nil
}

func (r resRepo) GetForUpdate(ctx context.Context, id string) (*models.Reservation, error) {
	return r.Get(ctx, id)
}

func (r resRepo) SetOrigin(ctx context.Context, id string, origin models.Location, approximate bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := r.m.reservations[id]
	res.Origin = &origin
	res.OriginApproximate = approximate
	r.m.reservations[id] = res
	return nil
}

func (r resRepo) Assign(ctx context.Context, id string, a models.Assignment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := r.m.reservations[id]
	driverID := a.DriverID
	at := a.AssignedAt
	res.DriverID = &driverID
	res.DriverName = a.DriverName
	res.DriverPhone = a.DriverPhone
	res.Status = types.StatusAssigned
	res.AssignmentMode = a.Mode
	res.AssignedAt = &at
	res.AssignedBy = a.AssignedBy
	res.DriverDistanceM = a.DistanceM
	res.DriverETAMin = a.ETAMin
	r.m.reservations[id] = res
	return nil
}

func (r resRepo) Complete(ctx context.Context, id string, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := r.m.reservations[id]
	res.Status = types.StatusCompleted
	res.CompletedAt = &at
	r.m.reservations[id] = res
	return nil
}

func (r resRepo) Cancel(ctx context.Context, id, reason, actor string, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := r.m.reservations[id]
	res.Status = types.StatusCancelled
	res.CancelReason = reason
	res.CancelledBy = actor
	res.CancelledAt = &at
	r.m.reservations[id] = res
	return nil
}

/* driver repo */

type drvRepo struct{ m *memStore }

func (r drvRepo) Get(ctx context.Context, id string) (*models.Driver, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.drivers[id]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return &d, nil
}

func (r drvRepo) GetForUpdate(ctx context.Context, id string) (*models.Driver, error) {
	return r.Get(ctx, id)
}

func (r drvRepo) ListAvailable(ctx context.Context) ([]models.Driver, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.staleList != nil {
		return r.m.staleList, nil
	}
	var out []models.Driver
	for _, d := range r.m.drivers {
		if d.Status == types.DriverAvailable {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r drvRepo) MarkAssigned(ctx context.Context, driverID, reservationID string, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d := r.m.drivers[driverID]
	a, b := reservationID, reservationID
	d.Status = types.DriverOnRide
	d.CurrentBookingID = &a
	d.ActiveReservationID = &b
	d.LastAssignmentAt = &at
	r.m.drivers[driverID] = d
	return nil
}

func (r drvRepo) Release(ctx context.Context, driverID string, completed bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d := r.m.drivers[driverID]
	d.Status = types.DriverAvailable
	d.CurrentBookingID = nil
	d.ActiveReservationID = nil
	if completed {
		d.CompletedRides++
	}
	r.m.drivers[driverID] = d
	r.m.released = append(r.m.released, driverID)
	return nil
}

/* side effects */

func (m *memStore) Notify(ctx context.Context, notes ...models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, notes...)
}

func (m *memStore) RecordError(ctx context.Context, e models.SystemError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sysErrors = append(m.sysErrors, e)
	return nil
}

func (m *memStore) noteTypes() []types.NotificationType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.NotificationType, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n.Type)
	}
	return out
}

type staticParams models.DispatchParams

func (p staticParams) Get(ctx context.Context) models.DispatchParams {
	return models.DispatchParams(p)
}

type fixedGeo models.Location

func (g fixedGeo) FallbackCoordinates(address string) models.Location {
	return models.Location(g)
}

func newTestEngine(m *memStore, p models.DispatchParams) *Engine {
	e := New(resRepo{m}, drvRepo{m}, staticParams(p), m, m, fixedGeo{Lat: 14.6928, Lng: -17.4467}, &serialTx{},
		Config{MinBalance: decimal.NewFromInt(1000), ManualDistanceKm: 5},
		logger.New(io.Discard, "test", logger.LevelError))
	e.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return e
}

func strptr(s string) *string { return &s }

package reconciliation

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type serialTx struct{ mu sync.Mutex }

func (t *serialTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type memStore struct {
	reservations map[string]models.Reservation
	drivers      map[string]models.Driver
	samples      []models.PositionSample
	daily        []models.DailyStats
	logs         []models.SystemLog
	notes        []models.Notification
	deleteCalls  int
}

func newMemStore() *memStore {
	return &memStore{reservations: map[string]models.Reservation{}, drivers: map[string]models.Driver{}}
}

type resRepo struct{ m *memStore }

func (r resRepo) ListAssignedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.m.reservations {
		if res.Status == types.StatusAssigned && res.AssignedAt != nil && res.AssignedAt.Before(cutoff) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r resRepo) GetForUpdate(ctx context.Context, id string) (*models.Reservation, error) {
	res, ok := r.m.reservations[id]
	if !ok {
		return nil, types.ErrReservationNotFound
	}
	return &res, nil
}

func (r resRepo) ResetToPending(ctx context.Context, id, driverID string) (bool, error) {
	res := r.m.reservations[id]
	current, _ := res.AssignedDriver()
	if res.Status != types.StatusAssigned || current != driverID {
		return false, nil
	}
	res.Status = types.StatusPending
	res.DriverID = nil
	res.DriverName = ""
	res.DriverPhone = ""
	res.AssignedAt = nil
	seen := driverID == ""
	for _, id := range res.RejectedDrivers {
		seen = seen || id == driverID
	}
	if !seen {
		res.RejectedDrivers = append(res.RejectedDrivers, driverID)
	}
	res.AssignmentAttempts++
	r.m.reservations[id] = res
	return true, nil
}

type drvRepo struct{ m *memStore }

func (r drvRepo) GetForUpdate(ctx context.Context, id string) (*models.Driver, error) {
	d, ok := r.m.drivers[id]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return &d, nil
}

func (r drvRepo) Release(ctx context.Context, driverID string, completed bool) error {
	d := r.m.drivers[driverID]
	d.Status = types.DriverAvailable
	d.CurrentBookingID, d.ActiveReservationID = nil, nil
	r.m.drivers[driverID] = d
	return nil
}

func (r drvRepo) ListLinkMismatches(ctx context.Context) ([]models.Driver, error) {
	var out []models.Driver
	for _, d := range r.m.drivers {
		if !samePtr(d.CurrentBookingID, d.ActiveReservationID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r drvRepo) SetBookingLinks(ctx context.Context, driverID, reservationID string) error {
	d := r.m.drivers[driverID]
	a, b := reservationID, reservationID
	d.CurrentBookingID, d.ActiveReservationID = &a, &b
	r.m.drivers[driverID] = d
	return nil
}

func (r drvRepo) ListActive(ctx context.Context) ([]models.Driver, error) {
	var out []models.Driver
	for _, d := range r.m.drivers {
		if d.Status == types.DriverAvailable || d.Status == types.DriverOnRide {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r drvRepo) MarkInactive(ctx context.Context, ids []string, at time.Time) (int64, error) {
	for _, id := range ids {
		d := r.m.drivers[id]
		d.Status = types.DriverOffline
		r.m.drivers[id] = d
	}
	return int64(len(ids)), nil
}

type historyRepo struct {
	m     *memStore
	batch []int64
}

func (h *historyRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	h.m.deleteCalls++
	var kept []models.PositionSample
	var n int64
	for _, s := range h.m.samples {
		if s.RecordedAt.Before(cutoff) && n < int64(limit) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	h.m.samples = kept
	h.batch = append(h.batch, n)
	return n, nil
}

func (h *historyRepo) DriversWithSamples(ctx context.Context, from, to time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range h.m.samples {
		if !s.RecordedAt.Before(from) && s.RecordedAt.Before(to) && !seen[s.DriverID] {
			seen[s.DriverID] = true
			out = append(out, s.DriverID)
		}
	}
	return out, nil
}

func (h *historyRepo) Samples(ctx context.Context, driverID string, from, to time.Time) ([]models.PositionSample, error) {
	var out []models.PositionSample
	for _, s := range h.m.samples {
		if s.DriverID == driverID && !s.RecordedAt.Before(from) && s.RecordedAt.Before(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (m *memStore) UpsertDaily(ctx context.Context, s models.DailyStats) error {
	m.daily = append(m.daily, s)
	return nil
}

func (m *memStore) AppendLog(ctx context.Context, l models.SystemLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *memStore) Notify(ctx context.Context, notes ...models.Notification) {
	m.notes = append(m.notes, notes...)
}

type staticParams models.DispatchParams

func (p staticParams) Get(ctx context.Context) models.DispatchParams {
	return models.DispatchParams(p)
}

func newTestService(m *memStore) (*Service, *historyRepo) {
	h := &historyRepo{m: m}
	loc, err := time.LoadLocation("Africa/Dakar")
	if err != nil {
		loc = time.UTC
	}
	s := New(resRepo{m}, drvRepo{m}, h, m, m, staticParams(models.DefaultDispatchParams()), m, &serialTx{},
		Config{
			InactivityThreshold: 10 * time.Minute,
			HistoryRetention:    7 * 24 * time.Hour,
			CleanupBatchSize:    500,
			Location:            loc,
		},
		logger.New(io.Discard, "test", logger.LevelError))
	s.now = func() time.Time { return testNow }
	return s, h
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }

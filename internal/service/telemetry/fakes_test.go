package telemetry

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// kmNorth converts a distance along a meridian into degrees of latitude.
func kmNorth(km float64) float64 {
	return km / (geo.EarthRadiusKm * math.Pi / 180)
}

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }

func tptr(v time.Time) *time.Time { return &v }

type trackingCall struct {
	id       string
	pos      models.Position
	distance float64
	eta      *time.Time
}

type memStore struct {
	stats        []models.DriverStats
	anomalies    []models.TrackingAnomaly
	reservations map[string]models.Reservation
	tracking     []trackingCall
	zones        []models.GeofenceZone
	events       []models.GeofenceEvent
	updates      []models.TrackingUpdate
}

func newMemStore() *memStore {
	return &memStore{reservations: map[string]models.Reservation{}}
}

func (m *memStore) UpsertDriverStats(ctx context.Context, s models.DriverStats) error {
	m.stats = append(m.stats, s)
	return nil
}

func (m *memStore) AppendAnomaly(ctx context.Context, a models.TrackingAnomaly) error {
	m.anomalies = append(m.anomalies, a)
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*models.Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, types.ErrReservationNotFound
	}
	return &res, nil
}

func (m *memStore) UpdateTracking(ctx context.Context, id string, pos models.Position, at time.Time, distanceIncrementM float64, eta *time.Time) error {
	m.tracking = append(m.tracking, trackingCall{id: id, pos: pos, distance: distanceIncrementM, eta: eta})
	return nil
}

func (m *memStore) ActiveZones(ctx context.Context) ([]models.GeofenceZone, error) {
	return m.zones, nil
}

func (m *memStore) AppendGeofenceEvent(ctx context.Context, e models.GeofenceEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) PublishTracking(ctx context.Context, u models.TrackingUpdate) error {
	m.updates = append(m.updates, u)
	return nil
}

func newTestProcessor(m *memStore) *Processor {
	p := NewProcessor(m, m, m, m, m, Config{
		SpeedThresholdKmh:  120,
		AccuracyThresholdM: 50,
		DefaultSampleGap:   3 * time.Second,
		DefaultSpeedKmh:    40,
		Location:           time.UTC,
	}, logger.New(io.Discard, "test", logger.LevelError))
	p.now = func() time.Time { return testNow }
	return p
}

/*=================Ingest fakes================================*/

type serialTx struct{ mu sync.Mutex }

func (t *serialTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type ingestStore struct {
	drivers   map[string]models.Driver
	samples   []models.PositionSample
	positions []models.DriverPositionEvent
	created   []models.PositionCreatedEvent
	failWrite bool
}

func (s *ingestStore) GetForUpdate(ctx context.Context, id string) (*models.Driver, error) {
	d, ok := s.drivers[id]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return &d, nil
}

func (s *ingestStore) UpdatePosition(ctx context.Context, driverID string, pos models.Position, at time.Time) error {
	if s.failWrite {
		return errors.New("connection reset")
	}
	d := s.drivers[driverID]
	d.Position = &pos
	d.LastActivityAt = &at
	s.drivers[driverID] = d
	return nil
}

func (s *ingestStore) AppendSample(ctx context.Context, sample models.PositionSample) error {
	s.samples = append(s.samples, sample)
	return nil
}

func (s *ingestStore) PublishDriverPosition(ctx context.Context, evt models.DriverPositionEvent) error {
	s.positions = append(s.positions, evt)
	return nil
}

func (s *ingestStore) PublishPositionCreated(ctx context.Context, evt models.PositionCreatedEvent) error {
	s.created = append(s.created, evt)
	return nil
}

func newTestIngestor(s *ingestStore) *Ingestor {
	i := NewIngestor(s, s, s, &serialTx{}, logger.New(io.Discard, "test", logger.LevelError))
	i.now = func() time.Time { return testNow }
	return i
}

package assignment

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/shopspring/decimal"
)

var origin = models.Location{Lat: 14.70, Lng: -17.45}

// kmPerDegree is the great-circle length of one degree of latitude.
var kmPerDegree = 6371 * math.Pi / 180

// driverAt places a driver km kilometres north (or south when negative) of origin.
func driverAt(id string, km float64, balance string) models.Driver {
	return models.Driver{
		ID:        id,
		FirstName: "Driver",
		LastName:  id,
		Phone:     "+221-" + id,
		Status:    types.DriverAvailable,
		Position:  &models.Position{Lat: origin.Lat + km/kmPerDegree, Lng: origin.Lng},
		Balance:   strptr(balance),
	}
}

func pendingReservation(id string) models.Reservation {
	loc := origin
	return models.Reservation{
		ID:                 id,
		Status:             types.StatusPending,
		OriginAddress:      "Plateau",
		Origin:             &loc,
		DestinationAddress: "Yoff",
		ClientName:         "Awa",
		EstimatedPrice:     strptr("2500 FCFA"),
	}
}

func TestSelectNearestFirstSeenTieBreak(t *testing.T) {
	drivers := []models.Driver{
		driverAt("far", 12.3, "5000"),
		driverAt("A", 4.1, "5000"),
		driverAt("B", 4.1, "5000"),
		driverAt("mid", 9.0, "5000"),
	}

	got, ok := SelectNearest(origin, drivers, 20, decimal.NewFromInt(1000))
	if !ok {
		t.Fatal("no candidate selected")
	}
	if got.Driver.ID != "A" {
		t.Fatalf("selected %s, want A", got.Driver.ID)
	}
	if math.Abs(got.DistanceKm-4.1) > 1e-6 {
		t.Errorf("distance = %v, want 4.1", got.DistanceKm)
	}
}

func TestSelectNearestEligibility(t *testing.T) {
	busy := driverAt("busy", 0.5, "9000")
	busy.ActiveReservationID = strptr("other")
	noGPS := driverAt("nogps", 0, "9000")
	noGPS.Position = nil

	tests := []struct {
		name    string
		drivers []models.Driver
		radius  float64
		want    string
	}{
		{
			name:    "low balance never selected",
			drivers: []models.Driver{driverAt("poor", 0.2, "999"), driverAt("rich", 8, "1 500 FCFA")},
			radius:  10,
			want:    "rich",
		},
		{
			name:    "legacy balance wins over new column",
			drivers: []models.Driver{func() models.Driver { d := driverAt("legacy", 1, "5000"); d.BalanceLegacy = strptr("10"); return d }(), driverAt("ok", 3, "1000")},
			radius:  10,
			want:    "ok",
		},
		{
			name:    "busy and gps-less drivers skipped",
			drivers: []models.Driver{busy, noGPS, driverAt("free", 2, "2000")},
			radius:  10,
			want:    "free",
		},
		{
			name:    "outside radius",
			drivers: []models.Driver{driverAt("remote", 15, "2000")},
			radius:  10,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectNearest(origin, tt.drivers, tt.radius, decimal.NewFromInt(1000))
			if tt.want == "" {
				if ok {
					t.Fatalf("selected %s, want none", got.Driver.ID)
				}
				return
			}
			if !ok || got.Driver.ID != tt.want {
				t.Fatalf("selected %q (ok=%v), want %s", got.Driver.ID, ok, tt.want)
			}
		})
	}
}

func TestAutoAssignLinksBothRecords(t *testing.T) {
	m := newMemStore()
	m.addDriver(driverAt("d1", 2, "3000"))
	m.addDriver(driverAt("d2", 6, "3000"))
	res := pendingReservation("r1")
	m.addReservation(res)

	e := newTestEngine(m, models.DefaultDispatchParams())
	outcome, err := e.AutoAssign(context.Background(), &res)
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if outcome != OutcomeAssigned {
		t.Fatalf("outcome = %s", outcome)
	}

	got := m.reservation("r1")
	if got.Status != types.StatusAssigned || got.DriverID == nil || *got.DriverID != "d1" {
		t.Fatalf("reservation not assigned to d1: %+v", got)
	}
	if got.AssignmentMode != types.ModeAutomatic || got.DriverDistanceM != 2000 || got.DriverETAMin != 6 {
		t.Errorf("assignment details = mode %s, %dm, %dmin", got.AssignmentMode, got.DriverDistanceM, got.DriverETAMin)
	}

	d := m.driver("d1")
	if d.Status != types.DriverOnRide || *d.CurrentBookingID != "r1" || *d.ActiveReservationID != "r1" {
		t.Fatalf("driver not linked: %+v", d)
	}

	kinds := m.noteTypes()
	if len(kinds) != 2 || kinds[0] != types.NotifyNewRide || kinds[1] != types.NotifyAssignmentSucceeded {
		t.Fatalf("notifications = %v", kinds)
	}
}

func TestAutoAssignSignals(t *testing.T) {
	manual := models.DefaultDispatchParams()
	manual.AutoAssign = false

	tests := []struct {
		name    string
		params  models.DispatchParams
		drivers []models.Driver
		status  types.ReservationStatus
		want    Outcome
		note    types.NotificationType
	}{
		{name: "manual mode", params: manual, drivers: []models.Driver{driverAt("d1", 1, "5000")}, want: OutcomeManualMode, note: types.NotifyManualAssignment},
		{name: "no driver", params: models.DefaultDispatchParams(), want: OutcomeNoDriver, note: types.NotifyNoDriver},
		{name: "none nearby", params: models.DefaultDispatchParams(), drivers: []models.Driver{driverAt("d1", 30, "5000")}, want: OutcomeNoneNearby, note: types.NotifyNoDriverNearby},
		{name: "not pending", params: models.DefaultDispatchParams(), status: types.StatusCancelled, want: OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemStore()
			for _, d := range tt.drivers {
				m.addDriver(d)
			}
			res := pendingReservation("r1")
			if tt.status != "" {
				res.Status = tt.status
			}
			m.addReservation(res)

			outcome, err := newTestEngine(m, tt.params).AutoAssign(context.Background(), &res)
			if err != nil {
				t.Fatalf("AutoAssign: %v", err)
			}
			if outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", outcome, tt.want)
			}
			kinds := m.noteTypes()
			if tt.note == "" {
				if len(kinds) != 0 {
					t.Fatalf("unexpected notifications %v", kinds)
				}
				return
			}
			if len(kinds) != 1 || kinds[0] != tt.note {
				t.Fatalf("notifications = %v, want [%s]", kinds, tt.note)
			}
			if m.reservation("r1").Status == types.StatusAssigned {
				t.Fatal("reservation was assigned")
			}
		})
	}
}

func TestAutoAssignPersistsApproximateOrigin(t *testing.T) {
	m := newMemStore()
	m.addDriver(models.Driver{ID: "d1", Status: types.DriverAvailable, Position: &models.Position{Lat: 14.70, Lng: -17.44}, Balance: strptr("2000")})
	res := pendingReservation("r1")
	res.Origin = nil
	m.addReservation(res)

	if _, err := newTestEngine(m, models.DefaultDispatchParams()).AutoAssign(context.Background(), &res); err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}

	got := m.reservation("r1")
	if !got.OriginApproximate || got.Origin == nil || got.Origin.Lat != 14.6928 {
		t.Fatalf("origin not persisted as approximate: %+v", got.Origin)
	}
}

func TestStaleCandidateAbortsAndRecordsError(t *testing.T) {
	m := newMemStore()
	stale := driverAt("d1", 1, "5000")
	m.staleList = []models.Driver{stale}

	changed := stale
	changed.CurrentBookingID = strptr("other")
	changed.Status = types.DriverOnRide
	m.addDriver(changed)

	res := pendingReservation("r1")
	m.addReservation(res)

	e := newTestEngine(m, models.DefaultDispatchParams())
	e.OnReservationCreated(context.Background(), models.ReservationCreatedEvent{Reservation: res})

	if got := m.reservation("r1"); got.Status != types.StatusPending {
		t.Fatalf("reservation status = %s, want pending", got.Status)
	}
	if len(m.sysErrors) != 1 || m.sysErrors[0].ReservationID != "r1" {
		t.Fatalf("system errors = %+v", m.sysErrors)
	}
}

func TestConcurrentAutoAndManualOnSameDriver(t *testing.T) {
	for i := 0; i < 50; i++ {
		m := newMemStore()
		m.addDriver(driverAt("d1", 1, "5000"))
		r1 := pendingReservation("r1")
		r2 := pendingReservation("r2")
		m.addReservation(r1)
		m.addReservation(r2)

		e := newTestEngine(m, models.DefaultDispatchParams())
		admin := models.Caller{Authenticated: true, Admin: true}

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.AutoAssign(context.Background(), &r1)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.ManualAssign(context.Background(), admin, "r2", "d1")
			errs <- err
		}()
		wg.Wait()
		close(errs)

		failures := 0
		for err := range errs {
			if err != nil {
				if !errors.Is(err, types.ErrDriverBusy) && !errors.Is(err, types.ErrDriverUnavailable) {
					t.Fatalf("loser error = %v, want a precondition failure", err)
				}
				failures++
			}
		}
		// the automatic path may also find no available driver and stop cleanly
		if failures > 1 {
			t.Fatalf("run %d: both attempts failed", i)
		}

		assigned := 0
		for _, id := range []string{"r1", "r2"} {
			if r := m.reservation(id); r.Status == types.StatusAssigned {
				assigned++
				if d := m.driver("d1"); *d.CurrentBookingID != id || *d.ActiveReservationID != id {
					t.Fatalf("driver linked to %v, winner %s", *d.CurrentBookingID, id)
				}
			}
		}
		if assigned != 1 {
			t.Fatalf("run %d: %d reservations assigned", i, assigned)
		}
	}
}

func TestManualAssign(t *testing.T) {
	admin := models.Caller{Authenticated: true, Admin: true}

	t.Run("unauthenticated", func(t *testing.T) {
		m := newMemStore()
		_, err := newTestEngine(m, models.DefaultDispatchParams()).ManualAssign(context.Background(), models.Caller{}, "r1", "d1")
		if !errors.Is(err, types.ErrUnauthenticated) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		m := newMemStore()
		m.addDriver(driverAt("d1", 1, "500 FCFA"))
		m.addReservation(pendingReservation("r1"))
		_, err := newTestEngine(m, models.DefaultDispatchParams()).ManualAssign(context.Background(), admin, "r1", "d1")
		if !errors.Is(err, types.ErrInsufficientBalance) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		m := newMemStore()
		_, err := newTestEngine(m, models.DefaultDispatchParams()).ManualAssign(context.Background(), admin, "nope", "d1")
		if !errors.Is(err, types.ErrReservationNotFound) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("releases previous driver", func(t *testing.T) {
		m := newMemStore()
		prev := driverAt("old", 1, "5000")
		prev.Status = types.DriverOnRide
		prev.CurrentBookingID = strptr("r1")
		prev.ActiveReservationID = strptr("r1")
		m.addDriver(prev)
		next := driverAt("new", 2, "5000")
		next.Position = nil
		m.addDriver(next)

		res := pendingReservation("r1")
		res.Status = types.StatusAssigned
		res.DriverID = strptr("old")
		m.addReservation(res)

		user := models.Caller{Authenticated: true, Identity: "ops@example.com"}
		out, err := newTestEngine(m, models.DefaultDispatchParams()).ManualAssign(context.Background(), user, "r1", "new")
		if err != nil {
			t.Fatalf("ManualAssign: %v", err)
		}
		if out.Driver.DistanceKm != 5 || out.Driver.Name != "Driver new" {
			t.Errorf("result = %+v", out)
		}
		if d := m.driver("old"); d.Status != types.DriverAvailable || d.HasBooking() {
			t.Errorf("previous driver not released: %+v", d)
		}
		got := m.reservation("r1")
		if *got.DriverID != "new" || got.AssignedBy != "ops@example.com" || got.AssignmentMode != types.ModeManual {
			t.Errorf("reservation = %+v", got)
		}
	})
}

func TestCompleteAndCancel(t *testing.T) {
	admin := models.Caller{Authenticated: true, Admin: true}

	newAssigned := func() *memStore {
		m := newMemStore()
		d := driverAt("d1", 1, "5000")
		d.Status = types.DriverOnRide
		d.CurrentBookingID = strptr("r1")
		d.ActiveReservationID = strptr("r1")
		m.addDriver(d)
		res := pendingReservation("r1")
		res.Status = types.StatusAssigned
		res.DriverID = strptr("d1")
		m.addReservation(res)
		return m
	}

	t.Run("complete", func(t *testing.T) {
		m := newAssigned()
		if err := newTestEngine(m, models.DefaultDispatchParams()).Complete(context.Background(), admin, "r1", ""); err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if r := m.reservation("r1"); r.Status != types.StatusCompleted || r.CompletedAt == nil {
			t.Fatalf("reservation = %+v", r)
		}
		if d := m.driver("d1"); d.Status != types.DriverAvailable || d.HasBooking() || d.CompletedRides != 1 {
			t.Fatalf("driver = %+v", d)
		}
	})

	t.Run("cancel defaults", func(t *testing.T) {
		m := newAssigned()
		if err := newTestEngine(m, models.DefaultDispatchParams()).Cancel(context.Background(), admin, "r1", "  "); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		r := m.reservation("r1")
		if r.Status != types.StatusCancelled || r.CancelReason != "Not specified" || r.CancelledBy != types.AdminIdentity {
			t.Fatalf("reservation = %+v", r)
		}
		if d := m.driver("d1"); d.HasBooking() {
			t.Fatalf("driver still linked")
		}
	})

	t.Run("cancel completed", func(t *testing.T) {
		m := newAssigned()
		e := newTestEngine(m, models.DefaultDispatchParams())
		if err := e.Complete(context.Background(), admin, "r1", "d1"); err != nil {
			t.Fatal(err)
		}
		if err := e.Cancel(context.Background(), admin, "r1", "late"); !errors.Is(err, types.ErrInvalidReservationState) {
			t.Fatalf("err = %v", err)
		}
	})
}

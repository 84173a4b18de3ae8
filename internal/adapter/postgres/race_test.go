package repo

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/assignment"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/Temutjin2k/dispatch-engine/internal/service/notify"
	"github.com/Temutjin2k/dispatch-engine/internal/service/settlement"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestConcurrentSettlementCreditsOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	l := logger.New(io.Discard, "test", logger.LevelError)

	mustExec(t, db, `INSERT INTO drivers (id, first_name, status, balance) VALUES ('d1', 'Moussa', 'available', '1000')`)
	mustExec(t, db, `
		INSERT INTO reservations (id, status, driver_id, estimated_price, payment_validated)
		VALUES ('r1', 'completed', 'd1', '2500', TRUE)`)

	notifier := notify.New(NewNotificationRepo(db), nil, nil, staticParams{}, l)
	engine := settlement.New(NewReservationRepo(db), NewDriverRepo(db), NewLedgerRepo(db), notifier, trm.New(db),
		settlement.Config{DriverRate: decimal.RequireFromString("0.70"), AuditScanLimit: 1000}, l)

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		credited int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.Credit(ctx, "r1", "d1", types.CreditVersionTrigger)
			if err != nil {
				t.Errorf("credit: %v", err)
				return
			}
			if res.Outcome == settlement.OutcomeCredited {
				mu.Lock()
				credited++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if credited != 1 {
		t.Fatalf("expected exactly one credit, got %d", credited)
	}

	d, err := NewDriverRepo(db).Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get driver: %v", err)
	}
	if got := d.AvailableBalance(); !got.Equal(decimal.NewFromInt(2750)) {
		t.Fatalf("balance = %s, want 2750", got)
	}
	if d.Balance == nil || d.BalanceLegacy == nil || *d.Balance != *d.BalanceLegacy {
		t.Fatalf("both balance columns must hold the new balance: %v / %v", d.Balance, d.BalanceLegacy)
	}

	var logs int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM credit_logs WHERE reservation_id = 'r1'`).Scan(&logs); err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if logs != 1 {
		t.Fatalf("expected one ledger entry, got %d", logs)
	}
}

func TestConcurrentAssignmentOfOneDriver(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	l := logger.New(io.Discard, "test", logger.LevelError)

	mustExec(t, db, `
		INSERT INTO drivers (id, first_name, status, balance, lat, lng)
		VALUES ('d1', 'Moussa', 'available', '5000', 14.6928, -17.4467)`)
	mustExec(t, db, `
		INSERT INTO reservations (id, status, origin_address, origin_lat, origin_lng)
		VALUES ('auto', 'pending', 'Plateau', 14.6930, -17.4460),
		       ('manual', 'pending', 'Medina', 14.6738, -17.4387)`)

	resRepo := NewReservationRepo(db)
	notifier := notify.New(NewNotificationRepo(db), nil, nil, staticParams{}, l)
	engine := assignment.New(resRepo, NewDriverRepo(db), staticParams{}, notifier, NewSystemRepo(db),
		geo.NewResolver(geo.DakarZones, geo.DefaultCenter), trm.New(db),
		assignment.Config{MinBalance: decimal.NewFromInt(1000), ManualDistanceKm: 5}, l)

	auto, err := resRepo.Get(ctx, "auto")
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = engine.AutoAssign(ctx, auto)
	}()
	go func() {
		defer wg.Done()
		_, _ = engine.ManualAssign(ctx, models.Caller{Authenticated: true, Identity: "ops@example.com"}, "manual", "d1")
	}()
	wg.Wait()

	var assigned int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM reservations WHERE driver_id = 'd1' AND status = 'assigned'`).Scan(&assigned); err != nil {
		t.Fatalf("count: %v", err)
	}
	if assigned != 1 {
		t.Fatalf("driver holds %d reservations, want 1", assigned)
	}

	d, err := NewDriverRepo(db).Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get driver: %v", err)
	}
	booking, ok := d.BookingID()
	if !ok || d.Status != types.DriverOnRide {
		t.Fatalf("driver must be on a ride, got %+v", d)
	}
	if *d.CurrentBookingID != *d.ActiveReservationID {
		t.Fatalf("booking links diverged: %s / %s", *d.CurrentBookingID, *d.ActiveReservationID)
	}

	res, err := resRepo.Get(ctx, booking)
	if err != nil || res.Status != types.StatusAssigned {
		t.Fatalf("linked reservation %s not assigned: %+v %v", booking, res, err)
	}
}

func TestResetToPendingWithoutDriverLink(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewReservationRepo(db)

	mustExec(t, db, `INSERT INTO reservations (id, status, assigned_at) VALUES ('r1', 'assigned', now() - interval '1 hour')`)

	reset, err := repo.ResetToPending(ctx, "r1", "")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reset {
		t.Fatal("reservation without a driver link was not reset")
	}

	res, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if res.Status != types.StatusPending || len(res.RejectedDrivers) != 0 || res.AssignmentAttempts != 1 {
		t.Fatalf("unexpected reservation after reset: status=%s rejected=%v attempts=%d",
			res.Status, res.RejectedDrivers, res.AssignmentAttempts)
	}

	// a wrong driver id must not match
	mustExec(t, db, `UPDATE reservations SET status = 'assigned' WHERE id = 'r1'`)
	if reset, err = repo.ResetToPending(ctx, "r1", "d9"); err != nil || reset {
		t.Fatalf("reset with a foreign driver = %v, %v; want false, nil", reset, err)
	}
}

type staticParams struct{}

func (staticParams) Get(ctx context.Context) models.DispatchParams {
	return models.DefaultDispatchParams()
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DISPATCH_TEST_DSN")
	if dsn == "" {
		t.Skip("DISPATCH_TEST_DSN not set; skipping DB-backed race tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_init.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(ctx, string(migration)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	mustExec(t, db, `
		TRUNCATE TABLE reservations, drivers, notifications, credit_logs, credit_errors,
			system_errors, system_logs, position_history, tracking_anomalies, driver_stats,
			daily_tracking_stats, geofence_events CASCADE`)
	return db
}

func mustExec(t *testing.T, db *pgxpool.Pool, query string) {
	t.Helper()
	if _, err := db.Exec(context.Background(), query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

package settlement

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/money"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	"github.com/shopspring/decimal"
)

type Config struct {
	// DriverRate is the driver's share of the ride price, e.g. 0.70.
	DriverRate     decimal.Decimal
	AuditScanLimit int
}

// Engine credits drivers exactly once per validated, completed ride.
type Engine struct {
	repos    repos
	notifier Notifier
	trm      trm.TxManager
	cfg      Config
	now      func() time.Time
	l        logger.Logger
}

type repos struct {
	reservation ReservationRepo
	driver      DriverRepo
	ledger      LedgerRepo
}

func New(reservationRepo ReservationRepo, driverRepo DriverRepo, ledgerRepo LedgerRepo, notifier Notifier, trm trm.TxManager, cfg Config, l logger.Logger) *Engine {
	return &Engine{
		repos: repos{
			reservation: reservationRepo,
			driver:      driverRepo,
			ledger:      ledgerRepo,
		},
		notifier: notifier,
		trm:      trm,
		cfg:      cfg,
		now:      time.Now,
		l:        l,
	}
}

type Outcome string

const (
	OutcomeCredited Outcome = "credited"
	// OutcomeNoop means a re-check inside the transaction failed and nothing was written.
	OutcomeNoop Outcome = "noop"
)

// Reasons attached to a no-op outcome.
const (
	ReasonAlreadyCredited     = "already_credited"
	ReasonStatusChanged       = "status_changed"
	ReasonPaymentNotValidated = "payment_not_validated"
	ReasonDriverMismatch      = "driver_mismatch"
	ReasonDriverMissing       = "driver_missing"
	ReasonInvalidPrice        = "invalid_price"
)

type Result struct {
	Outcome       Outcome
	Reason        string
	ReservationID string
	DriverID      string
	OperationID   string
	Price         decimal.Decimal
	Split         money.Split
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

func noop(reservationID, reason string) *Result {
	return &Result{Outcome: OutcomeNoop, Reason: reason, ReservationID: reservationID}
}

package assignment

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	"github.com/shopspring/decimal"
)

type Config struct {
	// MinBalance is the lowest balance a driver may hold and still take a ride.
	MinBalance decimal.Decimal
	// ManualDistanceKm is assumed when a manual assignment lacks coordinates.
	ManualDistanceKm float64
}

// Engine links drivers to pending reservations and releases them again.
type Engine struct {
	repos    repos
	params   ParamsProvider
	notifier Notifier
	errs     ErrorRecorder
	geo      Geocoder
	trm      trm.TxManager
	cfg      Config
	now      func() time.Time
	l        logger.Logger
}

type repos struct {
	reservation ReservationRepo
	driver      DriverRepo
}

func New(reservationRepo ReservationRepo, driverRepo DriverRepo, params ParamsProvider, notifier Notifier, errs ErrorRecorder, geo Geocoder, trm trm.TxManager, cfg Config, l logger.Logger) *Engine {
	return &Engine{
		repos: repos{
			reservation: reservationRepo,
			driver:      driverRepo,
		},
		params:   params,
		notifier: notifier,
		errs:     errs,
		geo:      geo,
		trm:      trm,
		cfg:      cfg,
		now:      time.Now,
		l:        l,
	}
}

// checkDriver validates a freshly read driver against the assignment preconditions.
func (e *Engine) checkDriver(d *models.Driver, requireAvailable bool) error {
	if requireAvailable && d.Status != types.DriverAvailable {
		return types.ErrDriverUnavailable
	}
	if d.HasBooking() {
		return types.ErrDriverBusy
	}
	if d.AvailableBalance().LessThan(e.cfg.MinBalance) {
		return types.ErrInsufficientBalance
	}
	return nil
}

func isTerminal(s types.ReservationStatus) bool {
	return s == types.StatusCompleted || s == types.StatusCancelled
}

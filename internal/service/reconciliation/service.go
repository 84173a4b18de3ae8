package reconciliation

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
)

type Config struct {
	InactivityThreshold time.Duration
	HistoryRetention    time.Duration
	CleanupBatchSize    int
	// Location is the time zone that defines a calendar day.
	Location *time.Location
}

// Service repairs drift between drivers, reservations and tracking data.
// Every job is safe to run again: a second run with nothing new to repair writes nothing.
type Service struct {
	repos    repos
	params   ParamsProvider
	notifier Notifier
	trm      trm.TxManager
	cfg      Config
	now      func() time.Time
	l        logger.Logger
}

type repos struct {
	reservation ReservationRepo
	driver      DriverRepo
	history     HistoryRepo
	daily       DailyStatsRepo
	syslog      SystemLogRepo
}

func New(reservationRepo ReservationRepo, driverRepo DriverRepo, historyRepo HistoryRepo, dailyRepo DailyStatsRepo, syslogRepo SystemLogRepo,
	params ParamsProvider, notifier Notifier, trm trm.TxManager, cfg Config, l logger.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		repos: repos{
			reservation: reservationRepo,
			driver:      driverRepo,
			history:     historyRepo,
			daily:       dailyRepo,
			syslog:      syslogRepo,
		},
		params:   params,
		notifier: notifier,
		trm:      trm,
		cfg:      cfg,
		now:      time.Now,
		l:        l,
	}
}

// Report summarises one job run.
type Report struct {
	Scanned  int
	Repaired int
	Failed   int
}

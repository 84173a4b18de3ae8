package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/configparser"
	"github.com/Temutjin2k/dispatch-engine/pkg/validator"
	"github.com/joho/godotenv"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode: dispatch-api | dispatch-worker | dispatch-scheduler")
	envFile  = flag.String("env-file", ".env", "Path to an optional .env file")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrUnknownMode     = errors.New("unknown mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Redis     RedisConfig
		Firebase  FirebaseConfig
		Services  ServicesConfig
		Auth      Auth
		Dispatch  DispatchConfig
		Scheduler SchedulerConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"dispatch_user"`
		Password string `env:"DATABASE_PASSWORD" default:"dispatch_pass"`
		Database string `env:"DATABASE_DATABASE" default:"dispatch_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`         // максимум открытых соединений
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`          // минимум соединений в пуле
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"` // макс. "время жизни" соединения
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`  // макс. "время простоя" соединения
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Prefetch int    `env:"RABBITMQ_PREFETCH" default:"16"`
	}

	RedisConfig struct {
		Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
		Enabled  bool   `env:"REDIS_ENABLED" default:"true"`
	}

	FirebaseConfig struct {
		CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
		ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	}

	ServicesConfig struct {
		APIPort       string `env:"SERVICES_API_PORT" default:"3000"`
		WorkerPort    string `env:"SERVICES_WORKER_PORT" default:"3001"`
		SchedulerPort string `env:"SERVICES_SCHEDULER_PORT" default:"3002"`
	}

	Auth struct {
		JWTSecret      string `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
		AdminTokenHash string `env:"AUTH_ADMIN_TOKEN_HASH"`
	}

	DispatchConfig struct {
		MinBalance          float64       `env:"DISPATCH_MIN_BALANCE" default:"1000"`
		DriverRate          string        `env:"DISPATCH_DRIVER_RATE" default:"0.70"`
		ManualDistanceKm    float64       `env:"DISPATCH_MANUAL_DISTANCE_KM" default:"5"`
		SpeedThresholdKmh   float64       `env:"DISPATCH_SPEED_THRESHOLD_KMH" default:"120"`
		AccuracyThresholdM  float64       `env:"DISPATCH_ACCURACY_THRESHOLD_M" default:"50"`
		DefaultSampleGap    time.Duration `env:"DISPATCH_DEFAULT_SAMPLE_GAP" default:"3s"`
		DefaultSpeedKmh     float64       `env:"DISPATCH_DEFAULT_SPEED_KMH" default:"40"`
		InactivityThreshold time.Duration `env:"DISPATCH_INACTIVITY_THRESHOLD" default:"10m"`
		HistoryRetention    time.Duration `env:"DISPATCH_HISTORY_RETENTION" default:"168h"`
		CleanupBatchSize    int           `env:"DISPATCH_CLEANUP_BATCH_SIZE" default:"500"`
		HistoryLimit        int           `env:"DISPATCH_HISTORY_LIMIT" default:"1000"`
		AuditScanLimit      int           `env:"DISPATCH_AUDIT_SCAN_LIMIT" default:"1000"`
		ParamsCacheTTL      time.Duration `env:"DISPATCH_PARAMS_CACHE_TTL" default:"1m"`
		Timezone            string        `env:"DISPATCH_TIMEZONE" default:"Africa/Dakar"`
	}

	SchedulerConfig struct {
		TimeoutSweep     string        `env:"SCHEDULER_TIMEOUT_SWEEP" default:"@every 5m"`
		ConsistencySweep string        `env:"SCHEDULER_CONSISTENCY_SWEEP" default:"@every 1h"`
		InactivitySweep  string        `env:"SCHEDULER_INACTIVITY_SWEEP" default:"@every 5m"`
		DailyRollup      string        `env:"SCHEDULER_DAILY_ROLLUP" default:"1 0 * * *"`
		HistoryCleanup   string        `env:"SCHEDULER_HISTORY_CLEANUP" default:"0 2 * * *"`
		SweepBudget      time.Duration `env:"SCHEDULER_SWEEP_BUDGET" default:"2m"`
		DailyBudget      time.Duration `env:"SCHEDULER_DAILY_BUDGET" default:"5m"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable&pool_max_conns=%d&pool_min_conns=%d&pool_max_conn_lifetime=%s&pool_max_conn_idle_time=%s",
		c.User,
		c.Password,
		net.JoinHostPort(c.Host, c.Port),
		c.Database,
		c.MaxConns,
		c.MinConns,
		c.MaxConnLifetime,
		c.MaxConnIdleTime,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s/",
		c.User,
		c.Password,
		net.JoinHostPort(c.Host, c.Port),
	)
}

// Location returns the dispatch time zone, UTC when it cannot be loaded.
func (c DispatchConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewConfig loads configuration and requires the -mode flag.
func NewConfig(filepath string) (*Config, error) {
	cfg, err := Load(filepath)
	if err != nil {
		return nil, err
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

// Load reads .env, the YAML file and the environment without looking at the mode flag.
func Load(filepath string) (*Config, error) {
	cfg := &Config{}

	// .env is optional; values already present in the environment win.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	mode := types.ServiceMode(*modeFlag)
	if !validator.PermittedValue(mode, types.APIService, types.WorkerService, types.SchedulerService) {
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	cfg.Mode = mode

	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Temutjin2k/dispatch-engine/config"
	repo "github.com/Temutjin2k/dispatch-engine/internal/adapter/postgres"
	rediscache "github.com/Temutjin2k/dispatch-engine/internal/adapter/redis"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/Temutjin2k/dispatch-engine/pkg/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	configPath    = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	migrationsDir = flag.String("migrations-dir", "migrations", "Directory holding *.up.sql files")
	seedParams    = flag.Bool("seed-params", true, "Write default dispatch params when none exist")
)

func main() {
	flag.Parse()

	ctx := context.Background()
	log := logger.InitLogger("dispatch-migrate", logger.LevelInfo)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to connect to postgres", err)
		os.Exit(1)
	}
	defer client.Pool.Close()

	applied, err := applyMigrations(ctx, client.Pool, *migrationsDir)
	if err != nil {
		log.Error(ctx, "failed to apply migrations", err)
		os.Exit(1)
	}
	log.Info(ctx, "migrations applied", "files", applied)

	if !*seedParams {
		return
	}

	// short timeout for the seed write
	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	wrote, err := repo.NewParamsRepo(client.Pool).Seed(seedCtx, models.DefaultDispatchParams())
	if err != nil {
		log.Error(ctx, "failed to seed dispatch params", err)
		os.Exit(1)
	}
	log.Info(ctx, "dispatch params seeded", "written", wrote)

	if wrote && cfg.Redis.Enabled {
		dropCachedParams(seedCtx, cfg.Redis, log)
	}
}

// dropCachedParams removes a cached params document left over from a previous database.
func dropCachedParams(ctx context.Context, cfg config.RedisConfig, log logger.Logger) {
	client, err := rediscache.NewClient(ctx, rediscache.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		log.Warn(ctx, "redis unavailable, cached params left in place", "error", err.Error())
		return
	}
	defer client.Close()

	if err := rediscache.NewParamsCache(client).Invalidate(ctx); err != nil {
		log.Warn(ctx, "failed to drop cached params", "error", err.Error())
	}
}

// applyMigrations runs every *.up.sql file in dir in name order. The files are
// expected to be idempotent.
func applyMigrations(ctx context.Context, db *pgxpool.Pool, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)

	applied := make([]string, 0, len(files))
	for _, f := range files {
		body, err := os.ReadFile(f)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", f, err)
		}
		if strings.TrimSpace(string(body)) == "" {
			continue
		}
		// no arguments: pgx sends this over the simple protocol, so multi-statement files work
		if _, err := db.Exec(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("apply %s: %w", filepath.Base(f), err)
		}
		applied = append(applied, filepath.Base(f))
	}
	return applied, nil
}

package main

import (
	"context"
	"flag"
	"os"

	"github.com/Temutjin2k/dispatch-engine/config"
	"github.com/Temutjin2k/dispatch-engine/internal/app"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	logLevel   = flag.String("log-level", logger.LevelInfo, "Log level: DEBUG | INFO | WARN | ERROR")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	if !logger.ValidateLogLevel(*logLevel) {
		*logLevel = logger.LevelInfo
	}
	log := logger.InitLogger("", *logLevel)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	config.PrintConfig(cfg)

	log = logger.InitLogger(string(cfg.Mode), *logLevel)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}

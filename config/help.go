package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Dispatch engine

Usage:
  dispatch -mode <mode> [-config-path config.yaml] [-env-file .env] [-log-level INFO]
  migrate [-config-path config.yaml] [-migrations-dir migrations] [-seed-params=true]

Modes:
  dispatch-api         HTTP API: assignment, completion, cancellation, credits, tracking
  dispatch-worker      RabbitMQ consumers: auto assignment, settlement, telemetry, geofences
  dispatch-scheduler   periodic jobs: timeouts, consistency, inactivity, daily stats, cleanup

Options:
  -help                Show this message
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

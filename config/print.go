package config

import (
	"fmt"
	"strings"
)

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	var b strings.Builder

	fmt.Fprintf(&b, "mode: %s\n", cfg.Mode)
	fmt.Fprintf(&b, "database: %s:%s/%s user=%s password=%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, cfg.Database.User, mask(cfg.Database.Password))
	fmt.Fprintf(&b, "rabbitmq: %s:%s user=%s\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User)
	fmt.Fprintf(&b, "redis: %s enabled=%t\n", cfg.Redis.Addr, cfg.Redis.Enabled)
	fmt.Fprintf(&b, "firebase: push=%t\n", cfg.Firebase.CredentialsFile != "")
	fmt.Fprintf(&b, "ports: api=%s worker=%s scheduler=%s\n", cfg.Services.APIPort, cfg.Services.WorkerPort, cfg.Services.SchedulerPort)
	fmt.Fprintf(&b, "auth: jwt_secret=%s admin_token=%t\n", mask(cfg.Auth.JWTSecret), cfg.Auth.AdminTokenHash != "")
	fmt.Fprintf(&b, "dispatch: min_balance=%.0f driver_rate=%s timezone=%s\n", cfg.Dispatch.MinBalance, cfg.Dispatch.DriverRate, cfg.Dispatch.Timezone)

	fmt.Print(b.String())
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

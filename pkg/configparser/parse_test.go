package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	DB struct {
		Host string `env:"CP_TEST_DB_HOST" default:"localhost"`
		Port int    `env:"CP_TEST_DB_PORT" default:"5432"`
	}
	Timeout time.Duration `env:"CP_TEST_TIMEOUT" default:"5s"`
	Enabled bool          `env:"CP_TEST_ENABLED" default:"true"`
	Rate    float64       `env:"CP_TEST_RATE" default:"0.7"`
	NoTag   string
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}

	if cfg.DB.Host != "localhost" || cfg.DB.Port != 5432 {
		t.Fatalf("unexpected db section: %+v", cfg.DB)
	}
	if cfg.Timeout != 5*time.Second || !cfg.Enabled || cfg.Rate != 0.7 {
		t.Fatalf("unexpected scalars: %+v", cfg)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CP_TEST_DB_PORT", "6543")
	t.Setenv("CP_TEST_TIMEOUT", "2m")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.DB.Port != 6543 || cfg.Timeout != 2*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseEnvRejectsBadValue(t *testing.T) {
	t.Setenv("CP_TEST_DB_PORT", "not-a-port")

	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected error for malformed int")
	}
}

func TestLoadAndParseYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "cp_test:\n  db:\n    host: db.internal\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CP_TEST_DB_HOST") })

	var cfg testConfig
	if err := LoadAndParseYaml(path, &cfg); err != nil {
		t.Fatalf("LoadAndParseYaml: %v", err)
	}
	if cfg.DB.Host != "db.internal" {
		t.Fatalf("yaml value not applied, got %q", cfg.DB.Host)
	}
}

func TestLoadAndParseYamlMissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "breathd.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "50ms"
save_interval_ticks = 10

[database]
driver = "postgres"
dsn = "postgres://x@db/breath"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.TickRate != 50*time.Millisecond || cfg.Simulation.SaveIntervalTicks != 10 {
		t.Fatalf("simulation not overridden: %+v", cfg.Simulation)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.MaxOpenConns != 4 {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Server.Name != "breathd" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "[database]\ndriver = \"mysql\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "mysql") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestLoadRejectsZeroTickRate(t *testing.T) {
	path := writeConfig(t, "[simulation]\ntick_rate = \"0s\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected tick rate error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected read error")
	}
}

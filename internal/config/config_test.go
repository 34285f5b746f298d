package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scan.IntervalMS != 500 {
		t.Errorf("scan interval = %d, want 500", cfg.Scan.IntervalMS)
	}
	if cfg.Scan.ResultTTLMS != 3000 {
		t.Errorf("result ttl = %d, want 3000", cfg.Scan.ResultTTLMS)
	}
	if cfg.Scan.Facing != "environment" {
		t.Errorf("facing = %q, want environment", cfg.Scan.Facing)
	}
	if cfg.Console.Listen == "" {
		t.Error("console listen address is empty")
	}
	if cfg.Storage.SQLite == nil || cfg.Storage.SQLite.Path == "" {
		t.Error("sqlite storage default missing")
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("API_TOKEN", "tok-from-env")
	t.Setenv("EVENT_ID", "42")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.APIToken != "tok-from-env" {
		t.Errorf("api token = %q", cfg.APIToken)
	}
	if cfg.EventID != 42 {
		t.Errorf("event id = %d, want 42", cfg.EventID)
	}
}

func TestLoadConfig_ClampsScanInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("scan:\n  interval_ms: 10\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scan.IntervalMS != MIN_SCAN_INTERVAL_MS {
		t.Errorf("interval = %d, want clamped to %d", cfg.Scan.IntervalMS, MIN_SCAN_INTERVAL_MS)
	}
}

func TestLoadConfig_MemorySQLitePathUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("storage:\n  sqlite:\n    path: \":memory:\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Storage.SQLite.Path != ":memory:" {
		t.Errorf("sqlite path = %q, want :memory:", cfg.Storage.SQLite.Path)
	}
}

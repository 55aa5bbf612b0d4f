package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("Server.BaseURL default = %q, want %q", cfg.Server.BaseURL, "http://localhost:5000")
	}
	if cfg.Server.RateLimit != 5 {
		t.Errorf("Server.RateLimit default = %d, want %d", cfg.Server.RateLimit, 5)
	}
	if cfg.Server.GetTimeout() != 30*time.Second {
		t.Errorf("Server.GetTimeout() default = %v, want %v", cfg.Server.GetTimeout(), 30*time.Second)
	}
	if cfg.Storage.Path != "data/deposits" {
		t.Errorf("Storage.Path default = %q, want %q", cfg.Storage.Path, "data/deposits")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level default = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestConfig_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"

[server]
base_url = "http://rebalance.local:8080"
rate_limit = 10
timeout = "10s"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "production")
	}
	if cfg.Server.BaseURL != "http://rebalance.local:8080" {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "http://rebalance.local:8080")
	}
	if cfg.Server.GetTimeout() != 10*time.Second {
		t.Errorf("Server.GetTimeout() = %v, want %v", cfg.Server.GetTimeout(), 10*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	// Sections absent from the file keep defaults.
	if cfg.Storage.Path != "data/deposits" {
		t.Errorf("Storage.Path = %q, want default %q", cfg.Storage.Path, "data/deposits")
	}
}

func TestConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("Server.BaseURL = %q, want default", cfg.Server.BaseURL)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_ENV", "staging")
	t.Setenv("FOLIO_SERVER_URL", "http://staging:5000")
	t.Setenv("FOLIO_RATE_LIMIT", "20")
	t.Setenv("FOLIO_LOG_LEVEL", "warn")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q after env override, want %q", cfg.Environment, "staging")
	}
	if cfg.Server.BaseURL != "http://staging:5000" {
		t.Errorf("Server.BaseURL = %q after env override, want %q", cfg.Server.BaseURL, "http://staging:5000")
	}
	if cfg.Server.RateLimit != 20 {
		t.Errorf("Server.RateLimit = %d after env override, want %d", cfg.Server.RateLimit, 20)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q after env override, want %q", cfg.Logging.Level, "warn")
	}
}

func TestConfig_InvalidRateLimitEnvIgnored(t *testing.T) {
	t.Setenv("FOLIO_RATE_LIMIT", "not-a-number")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.RateLimit != 5 {
		t.Errorf("Server.RateLimit = %d, want default %d", cfg.Server.RateLimit, 5)
	}
}

func TestConfig_DataPathEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_DATA_PATH", "/var/lib/folio")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	want := filepath.Join("/var/lib/folio", "deposits")
	if cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q after env override, want %q", cfg.Storage.Path, want)
	}
}

func TestResolveStoragePath(t *testing.T) {
	cfg := NewDefaultConfig()
	ResolveStoragePath(cfg, "/opt/folio")
	want := filepath.Join("/opt/folio", "data/deposits")
	if cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}

	cfg.Storage.Path = "/absolute/path"
	ResolveStoragePath(cfg, "/opt/folio")
	if cfg.Storage.Path != "/absolute/path" {
		t.Errorf("absolute Storage.Path modified to %q", cfg.Storage.Path)
	}
}

func TestConfig_GetTimeoutFallback(t *testing.T) {
	cfg := &ServerConfig{Timeout: "garbage"}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("GetTimeout() = %v with invalid value, want %v", cfg.GetTimeout(), 30*time.Second)
	}
}

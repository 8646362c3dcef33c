package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/douane/internal/config"
)

const baseConfig = `
log_level = "debug"

[server]
port = 9000

[database]
driver = "sqlite3"
path = "test.db"

[model]
kind = "artifact"
artifact = "model.json"

[metadata.sources.provenance]
table = "origins"

[audit]
queue_size = 16

[api]
max_body_size = 4096

[api.pagination]
default_page_size = 10
max_page_size = 50
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", baseConfig)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.Level())
	}
	if cfg.Database.MigrationURL() != "sqlite3://test.db" {
		t.Errorf("migration url = %q", cfg.Database.MigrationURL())
	}
	if cfg.Metadata.Sources["PROVENANCE"].Table != "origins" {
		t.Errorf("provenance source = %+v", cfg.Metadata.Sources["PROVENANCE"])
	}
	if cfg.Audit.QueueSize != 16 || cfg.Audit.Workers != 2 {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.API.MaxBodySize != 4096 {
		t.Errorf("max_body_size = %d, want 4096", cfg.API.MaxBodySize)
	}
	if cfg.API.Pagination.DefaultPageSize != 10 || cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination = %+v", cfg.API.Pagination)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout = %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", cfg.Version)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", baseConfig)

	t.Setenv("DOUANE_SERVER_PORT", "7000")
	t.Setenv("DOUANE_LOG_LEVEL", "warn")
	t.Setenv("DOUANE_DB_PATH", "override.db")
	t.Setenv("DOUANE_AUDIT_WORKERS", "6")
	t.Setenv("DOUANE_API_MAX_BODY_SIZE", "1024")
	t.Setenv("DOUANE_MODEL_KIND", "remote")
	t.Setenv("DOUANE_MODEL_BASE_URL", "http://model:8080")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("server.port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("level = %v, want warn", cfg.Level())
	}
	if cfg.Database.Path != "override.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Audit.Workers != 6 {
		t.Errorf("audit.workers = %d, want 6", cfg.Audit.Workers)
	}
	if cfg.API.MaxBodySize != 1024 {
		t.Errorf("max_body_size = %d, want 1024", cfg.API.MaxBodySize)
	}
	if cfg.Model.BaseURL != "http://model:8080" {
		t.Errorf("model.base_url = %q", cfg.Model.BaseURL)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", `
log_level = "error"

[server]
port = 8100

[api.pagination]
max_page_size = 25
`)
	t.Setenv("DOUANE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("env = %q, want staging", cfg.Env())
	}
	if cfg.Server.Port != 8100 {
		t.Errorf("server.port = %d, want 8100", cfg.Server.Port)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("level = %v, want error", cfg.Level())
	}
	if cfg.API.Pagination.MaxPageSize != 25 || cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination = %+v", cfg.API.Pagination)
	}
	if cfg.Database.Path != "test.db" {
		t.Errorf("base database.path lost: %q", cfg.Database.Path)
	}
}

func TestLoadFileMissingUsesEnvironment(t *testing.T) {
	t.Setenv("DOUANE_DB_DRIVER", "sqlite3")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("server.port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Env() != "local" {
		t.Errorf("env = %q, want local", cfg.Env())
	}
	if cfg.API.MaxBodySize <= 0 {
		t.Errorf("max_body_size = %d, want positive default", cfg.API.MaxBodySize)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", "log_level = "},
		{"invalid log level", "log_level = \"loud\"\n[database]\ndriver = \"sqlite3\"\n"},
		{"invalid shutdown timeout", "shutdown_timeout = \"soon\"\n[database]\ndriver = \"sqlite3\"\n"},
		{"unsupported driver", "[database]\ndriver = \"oracle\"\n"},
		{"postgres without name", "[database]\ndriver = \"pgx\"\n"},
		{"unknown metadata field", "[database]\ndriver = \"sqlite3\"\n[metadata.sources.colour]\ntable = \"x\"\n"},
		{"pagination default above max", "[database]\ndriver = \"sqlite3\"\n[api.pagination]\ndefault_page_size = 50\nmax_page_size = 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.toml", tt.content)
			if _, err := config.LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestServerConfigDefaults(t *testing.T) {
	var cfg config.ServerConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"read", cfg.ReadTimeoutDuration(), 15 * time.Second},
		{"read header", cfg.ReadHeaderTimeoutDuration(), 5 * time.Second},
		{"write", cfg.WriteTimeoutDuration(), 30 * time.Second},
		{"idle", cfg.IdleTimeoutDuration(), 60 * time.Second},
		{"shutdown", cfg.ShutdownTimeoutDuration(), 30 * time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s timeout = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if got := cfg.Addr(); got != "0.0.0.0:8000" {
		t.Errorf("addr = %q, want 0.0.0.0:8000", got)
	}
}

func TestServerConfigEnv(t *testing.T) {
	t.Setenv(config.EnvServerHost, "::1")
	t.Setenv(config.EnvServerReadHeaderTimeout, "2s")
	t.Setenv(config.EnvServerIdleTimeout, "0s")

	var cfg config.ServerConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got := cfg.Addr(); got != "[::1]:8000" {
		t.Errorf("addr = %q, want [::1]:8000", got)
	}
	if got := cfg.ReadHeaderTimeoutDuration(); got != 2*time.Second {
		t.Errorf("read header timeout = %v, want 2s", got)
	}
	if got := cfg.IdleTimeoutDuration(); got != 0 {
		t.Errorf("idle timeout = %v, want disabled", got)
	}
}

func TestServerConfigMerge(t *testing.T) {
	base := config.ServerConfig{Port: 8000, ReadTimeout: "15s", IdleTimeout: "60s"}
	base.Merge(&config.ServerConfig{IdleTimeout: "90s"})

	if base.IdleTimeout != "90s" {
		t.Errorf("idle_timeout = %q, want 90s", base.IdleTimeout)
	}
	if base.ReadTimeout != "15s" || base.Port != 8000 {
		t.Errorf("unset overlay fields changed base: %+v", base)
	}
}

func TestServerConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ServerConfig
		env  map[string]string
	}{
		{"port out of range", config.ServerConfig{Port: 70000}, nil},
		{"unparsable port env", config.ServerConfig{}, map[string]string{config.EnvServerPort: "http"}},
		{"bad idle timeout", config.ServerConfig{IdleTimeout: "later"}, nil},
		{"negative write timeout", config.ServerConfig{WriteTimeout: "-1s"}, nil},
		{"zero shutdown timeout", config.ServerConfig{ShutdownTimeout: "0s"}, nil},
		{"header timeout above read timeout", config.ServerConfig{ReadTimeout: "2s", ReadHeaderTimeout: "3s"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

package database_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/douane/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "douane", User: "douane"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Driver != database.DriverPostgres {
		t.Errorf("driver: got %s, want %s", cfg.Driver, database.DriverPostgres)
	}
	if cfg.Port != 5432 {
		t.Errorf("port: got %d, want 5432", cfg.Port)
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("max_open_conns: got %d, want 25", cfg.MaxOpenConns)
	}
	if got := cfg.ConnTimeoutDuration().String(); got != "5s" {
		t.Errorf("conn_timeout: got %s, want 5s", got)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "sqlite3")
	t.Setenv("TEST_DB_PATH", "/var/lib/douane/audit.db")
	t.Setenv("TEST_DB_MAX_OPEN", "4")

	env := &database.Env{
		Driver:       "TEST_DB_DRIVER",
		Path:         "TEST_DB_PATH",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Driver != database.DriverSQLite {
		t.Errorf("driver: got %s, want sqlite3", cfg.Driver)
	}
	if cfg.Path != "/var/lib/douane/audit.db" {
		t.Errorf("path: got %s", cfg.Path)
	}
	if cfg.MaxOpenConns != 4 {
		t.Errorf("max_open_conns: got %d, want 4", cfg.MaxOpenConns)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"postgres without name", database.Config{User: "u"}, "name required"},
		{"postgres without user", database.Config{Name: "n"}, "user required"},
		{"unknown driver", database.Config{Driver: "mysql"}, "unsupported driver"},
		{"bad timeout", database.Config{Driver: database.DriverSQLite, ConnTimeout: "soon"}, "conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDsnAndMigrationURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantDsn string
		wantURL string
	}{
		{
			name:    "sqlite",
			cfg:     database.Config{Driver: database.DriverSQLite, Path: "/tmp/douane.db"},
			wantDsn: "file:/tmp/douane.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on",
			wantURL: "sqlite3:///tmp/douane.db",
		},
		{
			name: "postgres",
			cfg: database.Config{
				Driver:   database.DriverPostgres,
				Host:     "db",
				Port:     5432,
				Name:     "douane",
				User:     "svc",
				Password: "secret",
				SSLMode:  "disable",
			},
			wantDsn: "host=db port=5432 dbname=douane user=svc password=secret sslmode=disable",
			wantURL: "pgx5://svc:secret@db:5432/douane?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Dsn(); got != tt.wantDsn {
				t.Errorf("Dsn() = %q, want %q", got, tt.wantDsn)
			}
			if got := tt.cfg.MigrationURL(); got != tt.wantURL {
				t.Errorf("MigrationURL() = %q, want %q", got, tt.wantURL)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Driver: database.DriverSQLite, Path: "douane.db", MaxOpenConns: 10}
	overlay := database.Config{Driver: database.DriverPostgres, Name: "douane"}
	base.Merge(&overlay)

	if base.Driver != database.DriverPostgres {
		t.Errorf("driver: got %s, want pgx", base.Driver)
	}
	if base.Name != "douane" {
		t.Errorf("name: got %s, want douane", base.Name)
	}
	if base.MaxOpenConns != 10 {
		t.Errorf("max_open_conns should remain 10, got %d", base.MaxOpenConns)
	}
}

// Package config loads service configuration from config.toml, an optional
// environment overlay (config.<DOUANE_ENV>.toml), and DOUANE_* variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/douane/internal/audit"
	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/internal/metadata"
	"github.com/JaimeStill/douane/pkg/database"
	"github.com/JaimeStill/douane/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDouaneEnv             = "DOUANE_ENV"
	EnvDouaneShutdownTimeout = "DOUANE_SHUTDOWN_TIMEOUT"
	EnvDouaneVersion         = "DOUANE_VERSION"
	EnvDouaneLogLevel        = "DOUANE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Driver:          "DOUANE_DB_DRIVER",
	Host:            "DOUANE_DB_HOST",
	Port:            "DOUANE_DB_PORT",
	Name:            "DOUANE_DB_NAME",
	User:            "DOUANE_DB_USER",
	Password:        "DOUANE_DB_PASSWORD",
	SSLMode:         "DOUANE_DB_SSL_MODE",
	Path:            "DOUANE_DB_PATH",
	MaxOpenConns:    "DOUANE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DOUANE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DOUANE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DOUANE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "DOUANE_STORAGE_PROVIDER",
	Root:             "DOUANE_STORAGE_ROOT",
	ContainerName:    "DOUANE_STORAGE_CONTAINER_NAME",
	ConnectionString: "DOUANE_STORAGE_CONNECTION_STRING",
}

var modelEnv = &classifier.Env{
	Kind:     "DOUANE_MODEL_KIND",
	Artifact: "DOUANE_MODEL_ARTIFACT",
	BaseURL:  "DOUANE_MODEL_BASE_URL",
	Timeout:  "DOUANE_MODEL_TIMEOUT",
}

var metadataEnv = &metadata.Env{
	Timeout: "DOUANE_METADATA_TIMEOUT",
}

var auditEnv = &audit.Env{
	QueueSize:     "DOUANE_AUDIT_QUEUE_SIZE",
	Workers:       "DOUANE_AUDIT_WORKERS",
	AppendTimeout: "DOUANE_AUDIT_APPEND_TIMEOUT",
}

// Config is the root configuration for the Douane service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Model           classifier.Config `toml:"model"`
	Metadata        metadata.Config   `toml:"metadata"`
	Audit           audit.Config      `toml:"audit"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
	LogLevel        string            `toml:"log_level"`
}

// Env returns the DOUANE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDouaneEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Model.Merge(&overlay.Model)
	c.Metadata.Merge(&overlay.Metadata)
	c.Audit.Merge(&overlay.Audit)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Model.Finalize(modelEnv); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Metadata.Finalize(metadataEnv); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	if err := c.Audit.Finalize(auditEnv); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDouaneShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDouaneVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvDouaneLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDouaneEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

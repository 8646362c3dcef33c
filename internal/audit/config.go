package audit

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config controls the background writer that moves records off the request path.
type Config struct {
	QueueSize     int    `toml:"queue_size"`
	Workers       int    `toml:"workers"`
	AppendTimeout string `toml:"append_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	QueueSize     string
	Workers       string
	AppendTimeout string
}

// AppendTimeoutDuration returns AppendTimeout as a time.Duration.
func (c *Config) AppendTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.AppendTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.AppendTimeout != "" {
		c.AppendTimeout = overlay.AppendTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.AppendTimeout == "" {
		c.AppendTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.QueueSize != "" {
		if v := os.Getenv(env.QueueSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.QueueSize = n
			}
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Workers = n
			}
		}
	}
	if env.AppendTimeout != "" {
		if v := os.Getenv(env.AppendTimeout); v != "" {
			c.AppendTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if _, err := time.ParseDuration(c.AppendTimeout); err != nil {
		return fmt.Errorf("invalid append_timeout: %w", err)
	}
	return nil
}

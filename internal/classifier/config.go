package classifier

import (
	"fmt"
	"os"
	"time"
)

// Classifier implementations selectable through Config.Kind.
const (
	KindArtifact = "artifact"
	KindRemote   = "remote"
)

// Config selects how the classifier is obtained at startup.
type Config struct {
	Kind     string `toml:"kind"`
	Artifact string `toml:"artifact"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Kind     string
	Artifact string
	BaseURL  string
	Timeout  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.Kind != "" {
		c.Kind = overlay.Kind
	}
	if overlay.Artifact != "" {
		c.Artifact = overlay.Artifact
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Kind == "" {
		c.Kind = KindArtifact
	}
	if c.Artifact == "" {
		c.Artifact = "fraud_detection_model.json"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Kind != "" {
		if v := os.Getenv(env.Kind); v != "" {
			c.Kind = v
		}
	}
	if env.Artifact != "" {
		if v := os.Getenv(env.Artifact); v != "" {
			c.Artifact = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Kind {
	case KindArtifact:
		if c.Artifact == "" {
			return fmt.Errorf("artifact required")
		}
	case KindRemote:
		if c.BaseURL == "" {
			return fmt.Errorf("base_url required")
		}
	default:
		return fmt.Errorf("unsupported kind: %q", c.Kind)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

package metadata

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/JaimeStill/douane/internal/features"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Source names the table and column holding the known values of one field.
type Source struct {
	Table  string `toml:"table"`
	Column string `toml:"column"`
}

// Config maps each field, by wire name, to its reference table.
// Fields without an entry read column "code" from table ref_<audit column>.
type Config struct {
	Timeout string            `toml:"timeout"`
	Sources map[string]Source `toml:"sources"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Source returns the resolved source for f. Call after Finalize.
func (c *Config) Source(f features.Field) Source {
	return c.Sources[f.String()]
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if err := c.normalize(); err != nil {
		return err
	}
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Sources merge per field.
func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if len(overlay.Sources) > 0 && c.Sources == nil {
		c.Sources = make(map[string]Source, len(overlay.Sources))
	}
	for name, src := range overlay.Sources {
		cur := c.Sources[name]
		if src.Table != "" {
			cur.Table = src.Table
		}
		if src.Column != "" {
			cur.Column = src.Column
		}
		c.Sources[name] = cur
	}
}

// normalize rekeys Sources by canonical wire name.
func (c *Config) normalize() error {
	sources := make(map[string]Source, features.Count)
	for name, src := range c.Sources {
		f, ok := features.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown metadata field: %q", name)
		}
		sources[f.String()] = src
	}
	c.Sources = sources
	return nil
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	for _, f := range features.Fields() {
		src := c.Sources[f.String()]
		if src.Table == "" {
			src.Table = "ref_" + f.Column()
		}
		if src.Column == "" {
			src.Column = "code"
		}
		c.Sources[f.String()] = src
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	for _, f := range features.Fields() {
		src := c.Sources[f.String()]
		if !identifier.MatchString(src.Table) {
			return fmt.Errorf("%s: invalid table name %q", f, src.Table)
		}
		if !identifier.MatchString(src.Column) {
			return fmt.Errorf("%s: invalid column name %q", f, src.Column)
		}
	}
	return nil
}

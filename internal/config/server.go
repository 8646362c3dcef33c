package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "DOUANE_SERVER_HOST"
	EnvServerPort              = "DOUANE_SERVER_PORT"
	EnvServerReadTimeout       = "DOUANE_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "DOUANE_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "DOUANE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "DOUANE_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "DOUANE_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds the listen address and the http.Server timeouts.
// Timeouts are Go duration strings; "0s" disables the matching limit
// except for shutdown, which must be positive.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`

	portEnv string
}

type serverTimeout struct {
	key   string
	env   string
	def   string
	value *string
}

func (c *ServerConfig) timeouts() []serverTimeout {
	return []serverTimeout{
		{"read_timeout", EnvServerReadTimeout, "15s", &c.ReadTimeout},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "5s", &c.ReadHeaderTimeout},
		{"write_timeout", EnvServerWriteTimeout, "30s", &c.WriteTimeout},
		{"idle_timeout", EnvServerIdleTimeout, "60s", &c.IdleTimeout},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout},
	}
}

// Addr returns the host:port listen address. IPv6 hosts are bracketed.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	theirs := overlay.timeouts()
	for i, t := range c.timeouts() {
		if v := *theirs[i].value; v != "" {
			*t.value = v
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	for _, t := range c.timeouts() {
		if *t.value == "" {
			*t.value = t.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	c.portEnv = os.Getenv(EnvServerPort)
	if port, err := strconv.Atoi(c.portEnv); err == nil {
		c.Port = port
		c.portEnv = ""
	}
	for _, t := range c.timeouts() {
		if v := os.Getenv(t.env); v != "" {
			*t.value = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.portEnv != "" {
		return fmt.Errorf("invalid %s: %q is not a port number", EnvServerPort, c.portEnv)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, t := range c.timeouts() {
		d, err := time.ParseDuration(*t.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", t.key, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: %s is negative", t.key, *t.value)
		}
	}
	if c.ShutdownTimeoutDuration() == 0 {
		return fmt.Errorf("invalid shutdown_timeout: must be positive")
	}
	if read := c.ReadTimeoutDuration(); read > 0 && c.ReadHeaderTimeoutDuration() > read {
		return fmt.Errorf("read_header_timeout %s exceeds read_timeout %s", c.ReadHeaderTimeout, c.ReadTimeout)
	}
	return nil
}

// mustDuration parses a duration already checked by validate.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

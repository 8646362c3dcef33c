package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/douane/pkg/middleware"
	"github.com/JaimeStill/douane/pkg/pagination"
)

const (
	EnvAPIMaxBodySize = "DOUANE_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DOUANE_CORS_ENABLED",
	Origins:          "DOUANE_CORS_ORIGINS",
	AllowedMethods:   "DOUANE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DOUANE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DOUANE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DOUANE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "DOUANE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DOUANE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds request limits, CORS, and pagination settings.
type APIConfig struct {
	MaxBodySize int64                 `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.MaxBodySize < 1 {
		return fmt.Errorf("max_body_size must be positive")
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxBodySize != 0 {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxBodySize == 0 {
		c.MaxBodySize = 64 * 1024
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodySize = n
		}
	}
}

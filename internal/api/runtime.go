package api

import (
	"github.com/JaimeStill/douane/internal/config"
	"github.com/JaimeStill/douane/internal/infrastructure"
	"github.com/JaimeStill/douane/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	MaxBodySize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:    infra.Lifecycle,
			Logger:       infra.Logger.With("module", "api"),
			Database:     infra.Database,
			Storage:      infra.Storage,
			MigrationURL: infra.MigrationURL,
		},
		Pagination:  cfg.API.Pagination,
		MaxBodySize: cfg.API.MaxBodySize,
	}
}

// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, artifact storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/douane/internal/config"
	"github.com/JaimeStill/douane/pkg/database"
	"github.com/JaimeStill/douane/pkg/lifecycle"
	"github.com/JaimeStill/douane/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System

	// MigrationURL addresses the same database as Database in golang-migrate form.
	MigrationURL string
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:    lc,
		Logger:       logger,
		Database:     db,
		Storage:      store,
		MigrationURL: cfg.Database.MigrationURL(),
	}, nil
}

// Start registers the database with the lifecycle coordinator.
// It must run before any system whose shutdown depends on an open database,
// since shutdown hooks run in reverse registration order.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}

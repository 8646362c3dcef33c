package api

import (
	"context"

	"github.com/JaimeStill/douane/internal/audit"
	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/internal/config"
	"github.com/JaimeStill/douane/internal/decisions"
	"github.com/JaimeStill/douane/internal/metadata"
	"github.com/JaimeStill/douane/internal/predictions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Metadata    *metadata.Store
	Audit       audit.System
	Writer      *audit.Writer
	Decisions   *decisions.Engine
	Predictions *predictions.Service
}

// NewDomain creates all domain systems from the API runtime and runs the
// startup bootstrap: audit schema, metadata snapshot, classifier.
// Each bootstrap step degrades on failure instead of aborting startup.
func NewDomain(ctx context.Context, cfg *config.Config, runtime *Runtime) (*Domain, error) {
	logger := runtime.Logger
	db := runtime.Database.Connection()

	if err := audit.EnsureSchema(runtime.MigrationURL); err != nil {
		logger.Error("audit schema unavailable, predictions will not be logged", "error", err)
	}

	meta := metadata.New(db, &cfg.Metadata, logger)
	meta.Load(ctx)

	clf, err := classifier.Load(ctx, &cfg.Model, runtime.Storage, logger)
	if err != nil {
		logger.Error("classifier unavailable, /predict will return 503", "error", err)
		clf = nil
	}
	engine := decisions.New(clf, logger)

	auditSystem := audit.New(db, logger, runtime.Pagination)
	writer := audit.NewWriter(auditSystem, &cfg.Audit, logger)
	if err := writer.Start(runtime.Lifecycle); err != nil {
		return nil, err
	}

	return &Domain{
		Metadata:    meta,
		Audit:       auditSystem,
		Writer:      writer,
		Decisions:   engine,
		Predictions: predictions.New(engine, meta, writer, logger),
	}, nil
}

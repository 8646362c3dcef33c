package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/douane/pkg/storage"
)

// Load builds the classifier described by cfg. Artifact models are read from store.
func Load(ctx context.Context, cfg *Config, store storage.System, logger *slog.Logger) (Classifier, error) {
	logger = logger.With("system", "classifier", "kind", cfg.Kind)

	switch cfg.Kind {
	case KindRemote:
		r, err := NewRemote(cfg.BaseURL, cfg.TimeoutDuration())
		if err != nil {
			return nil, err
		}
		logger.Info("classifier configured", "model", r.Name())
		return r, nil

	case KindArtifact:
		ok, err := store.Exists(ctx, cfg.Artifact)
		if err != nil {
			return nil, fmt.Errorf("locate artifact %s: %w", cfg.Artifact, err)
		}
		if !ok {
			return nil, fmt.Errorf("artifact %s: %w", cfg.Artifact, storage.ErrNotFound)
		}

		body, err := store.Download(ctx, cfg.Artifact)
		if err != nil {
			return nil, fmt.Errorf("load artifact %s: %w", cfg.Artifact, err)
		}
		defer body.Close()

		nb, err := ReadArtifact(body)
		if err != nil {
			return nil, fmt.Errorf("load artifact %s: %w", cfg.Artifact, err)
		}
		logger.Info("classifier loaded", "model", nb.Name(), "artifact", cfg.Artifact)
		return nb, nil

	default:
		return nil, fmt.Errorf("unsupported classifier kind: %q", cfg.Kind)
	}
}

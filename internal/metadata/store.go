// Package metadata loads the known values of each declaration field from the
// reference tables once at startup and serves them to clients.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/douane/internal/features"
	"github.com/JaimeStill/douane/pkg/repository"
)

// Store loads and holds the metadata snapshot.
type Store struct {
	db     *sql.DB
	cfg    *Config
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// New creates a Store. The snapshot is empty until Load is called.
func New(db *sql.DB, cfg *Config, logger *slog.Logger) *Store {
	return &Store{
		db:       db,
		cfg:      cfg,
		logger:   logger.With("system", "metadata"),
		snapshot: NewSnapshot(nil),
	}
}

// Handler returns the HTTP handler serving the snapshot.
func (s *Store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Load queries every field's reference table concurrently and replaces the snapshot.
// A field whose query fails is logged and left empty; Load itself never fails.
func (s *Store) Load(ctx context.Context) Snapshot {
	if timeout := s.cfg.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results := make([][]string, features.Count)

	var g errgroup.Group
	for _, f := range features.Fields() {
		g.Go(func() error {
			values, err := s.fetch(ctx, f)
			if err != nil {
				s.logFailure(f, err)
				values = nil
			}
			results[f] = values
			return nil
		})
	}
	g.Wait()

	values := make(map[features.Field][]string, features.Count)
	for _, f := range features.Fields() {
		values[f] = results[f]
	}
	snap := NewSnapshot(values)

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("metadata loaded", "counts", counts(snap))
	return snap
}

// Snapshot returns the most recently loaded snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Store) fetch(ctx context.Context, f features.Field) ([]string, error) {
	src := s.cfg.Source(f)
	q := fmt.Sprintf(
		"SELECT DISTINCT %[2]s FROM %[1]s WHERE %[2]s IS NOT NULL ORDER BY %[2]s",
		src.Table, src.Column,
	)

	values, err := repository.QueryMany(ctx, s.db, q, nil, repository.ScanString)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s.%s: %w", f, src.Table, src.Column, err)
	}
	return values, nil
}

func (s *Store) logFailure(f features.Field, err error) {
	if repository.IsMissingRelation(err) {
		s.logger.Warn("metadata table missing, field left empty", "field", f.String(), "error", err)
		return
	}
	s.logger.Error("metadata load failed, field left empty", "field", f.String(), "error", err)
}

func counts(snap Snapshot) map[string]int {
	m := make(map[string]int, features.Count)
	for name, values := range snap.Map() {
		m[name] = len(values)
	}
	return m
}

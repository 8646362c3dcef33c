package audit

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// NewMigrator returns a migrate instance for databaseURL using the embedded
// migrations of the matching dialect. Supported schemes are pgx5 and sqlite3.
// The caller owns the returned instance and must Close it.
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	dir, err := migrationDir(databaseURL)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, nil
}

// EnsureSchema applies all pending migrations. An up-to-date schema is not an error.
func EnsureSchema(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}

	return nil
}

func migrationDir(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "pgx5":
		return "migrations/postgres", nil
	case "sqlite3":
		return "migrations/sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported migration scheme: %q", u.Scheme)
	}
}

package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const pgUndefinedTableCode = "42P01"

// IsMissingRelation reports whether err was raised because a queried table does not exist.
// It recognizes PostgreSQL undefined_table (42P01) and SQLite "no such table" errors.
func IsMissingRelation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTableCode
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrError &&
			strings.Contains(liteErr.Error(), "no such table")
	}

	return false
}

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/douane/internal/features"
	"github.com/JaimeStill/douane/pkg/pagination"
	"github.com/JaimeStill/douane/pkg/query"
	"github.com/JaimeStill/douane/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit log repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

var insertSQL = buildInsert()

func buildInsert() string {
	cols := []string{"logged_at", "client_ip"}
	for _, f := range features.Fields() {
		cols = append(cols, f.Column())
	}
	cols = append(cols, "prediction", "probability")

	params := make([]string, len(cols))
	for i := range cols {
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table,
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
	)
}

func (r *repo) Append(ctx context.Context, rec Record) (int64, error) {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	args := make([]any, 0, features.Count+4)
	args = append(args, ts.UTC(), TruncateClientIP(rec.ClientIP))
	for _, f := range features.Fields() {
		args = append(args, rec.Inputs.Get(f))
	}
	args = append(args, rec.Prediction, rec.Probability)

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.QueryOne(ctx, tx, insertSQL, args, repository.ScanInt64)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAppend, err)
	}

	r.logger.Debug("prediction logged", "id", id, "prediction", rec.Prediction)
	return id, nil
}

func (r *repo) Page(ctx context.Context, page pagination.PageRequest, filters Filters) (*Page, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	pageSQL, pageArgs := qb.BuildPage(page.Size, page.Offset())

	type result struct {
		total int64
		logs  []Record
	}

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (result, error) {
		total, err := repository.QueryOne(ctx, tx, countSQL, countArgs, repository.ScanInt64)
		if err != nil {
			return result{}, fmt.Errorf("count records: %w", err)
		}

		logs, err := repository.QueryMany(ctx, tx, pageSQL, pageArgs, scanRecord)
		if err != nil {
			return result{}, fmt.Errorf("query records: %w", err)
		}

		return result{total: total, logs: logs}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	total := int(res.total)
	return &Page{
		Total:      total,
		Logs:       res.logs,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: pagination.TotalPages(total, page.Size),
	}, nil
}

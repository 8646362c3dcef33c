package audit

import (
	"context"

	"github.com/JaimeStill/douane/pkg/pagination"
)

// System defines the public contract for the prediction audit log.
type System interface {
	Handler() *Handler

	// Append stores rec and returns its assigned id. Timestamp defaults to now (UTC).
	Append(ctx context.Context, rec Record) (int64, error)

	// Page returns records newest first. Page and size must both be >= 1.
	Page(ctx context.Context, page pagination.PageRequest, filters Filters) (*Page, error)
}

// Package pagination provides types and utilities for paginated data queries.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// ErrInvalidRequest indicates a page number or page size below 1, a non-integer value,
// or a page whose offset does not fit in an int.
var ErrInvalidRequest = errors.New("invalid page request")

// PageRequest identifies a 1-based page of a result set.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Validate fails with ErrInvalidRequest when either value is below 1
// or when Offset would overflow.
func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidRequest, r.Page)
	}
	if r.Size < 1 {
		return fmt.Errorf("%w: size must be >= 1, got %d", ErrInvalidRequest, r.Size)
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return fmt.Errorf("%w: page %d is out of range for size %d", ErrInvalidRequest, r.Page, r.Size)
	}
	return nil
}

// Clamp caps the page size at the configured maximum.
func (r *PageRequest) Clamp(cfg Config) {
	if r.Size > cfg.MaxPageSize {
		r.Size = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
// It is only meaningful for a request that passed Validate.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// PageRequestFromQuery parses the page and size query parameters.
// Missing values fall back to page 1 and the configured default size.
// Present values must be integers >= 1; sizes above the maximum are clamped
// before the page is range-checked.
func PageRequestFromQuery(values url.Values, cfg Config) (PageRequest, error) {
	req := PageRequest{Page: 1, Size: cfg.DefaultPageSize}

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: page %q is not an integer", ErrInvalidRequest, v)
		}
		req.Page = n
	}

	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: size %q is not an integer", ErrInvalidRequest, v)
		}
		req.Size = n
	}

	req.Clamp(cfg)
	if err := req.Validate(); err != nil {
		return req, err
	}

	return req, nil
}

// TotalPages returns the number of pages needed to hold total items, never less than 1.
func TotalPages(total, size int) int {
	if size < 1 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return max(pages, 1)
}

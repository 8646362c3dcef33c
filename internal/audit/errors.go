package audit

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/douane/pkg/pagination"
)

// Domain errors for audit operations.
var (
	ErrInvalidPageRequest = pagination.ErrInvalidRequest
	ErrQuery              = errors.New("audit query failed")
	ErrAppend             = errors.New("audit append failed")
	ErrSchema             = errors.New("audit schema migration failed")
)

// MapHTTPStatus maps audit domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidPageRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

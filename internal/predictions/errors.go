package predictions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/douane/internal/decisions"
	"github.com/JaimeStill/douane/internal/features"
)

// ErrBodyTooLarge indicates a request body above the configured limit.
var ErrBodyTooLarge = errors.New("request body too large")

// MapHTTPStatus maps prediction pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, features.ErrMissingField),
		errors.Is(err, features.ErrInvalidField),
		errors.Is(err, features.ErrInvalidBody):
		return http.StatusBadRequest
	default:
		return decisions.MapHTTPStatus(err)
	}
}

package decisions

import (
	"errors"
	"net/http"
)

var (
	// ErrInferenceUnavailable indicates no classifier was loaded at startup.
	ErrInferenceUnavailable = errors.New("classifier unavailable")
	// ErrInference indicates the classifier failed or returned an unusable result.
	ErrInference = errors.New("inference failed")
)

// MapHTTPStatus maps decision errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInferenceUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

package predictions

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/douane/internal/features"
	"github.com/JaimeStill/douane/pkg/handlers"
	"github.com/JaimeStill/douane/pkg/routes"
)

// Handler provides the HTTP endpoint for risk predictions.
type Handler struct {
	svc         *Service
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given service, logger, and body size limit.
func NewHandler(svc *Service, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		svc:         svc,
		logger:      logger.With("handler", "predictions"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for prediction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/predict",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Predict},
		},
	}
}

// Predict classifies the declaration in the request body.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	in, err := features.DecodeInput(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.svc.Predict(r.Context(), in, ClientOrigin(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

package metadata

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/douane/pkg/handlers"
	"github.com/JaimeStill/douane/pkg/routes"
)

// Provider exposes the current snapshot.
type Provider interface {
	Snapshot() Snapshot
}

// Handler provides the HTTP endpoint for field metadata.
type Handler struct {
	provider Provider
	logger   *slog.Logger
}

// NewHandler creates a Handler serving snapshots from provider.
func NewHandler(provider Provider, logger *slog.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger.With("handler", "metadata"),
	}
}

// Routes returns the route group definition for metadata endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/metadata",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
		},
	}
}

// Get returns the known values of every field keyed by wire name.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.provider.Snapshot())
}

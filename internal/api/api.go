// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/JaimeStill/douane/internal/config"
	"github.com/JaimeStill/douane/internal/infrastructure"
	"github.com/JaimeStill/douane/pkg/middleware"
)

// Module is the API's routes wrapped in its middleware stack.
type Module struct {
	Domain     *Domain
	router     http.Handler
	middleware *middleware.Stack
}

// NewModule creates the API module with all domain handlers and middleware.
// infra.Start must already have been called so the audit writer drains
// before the database closes on shutdown.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(ctx, cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := &Module{
		Domain: domain,
		router: mux,
		middleware: middleware.New(
			middleware.RequestID(),
			middleware.CORS(&cfg.API.CORS),
			middleware.Logger(runtime.Logger),
			middleware.Recover(runtime.Logger),
		),
	}

	return m, nil
}

// Handler returns the router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

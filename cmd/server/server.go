package main

import (
	"context"
	"time"

	"github.com/JaimeStill/douane/internal/api"
	"github.com/JaimeStill/douane/internal/config"
	"github.com/JaimeStill/douane/internal/infrastructure"
)

// Server owns the infrastructure, the API module, and the HTTP listener.
type Server struct {
	infra *infrastructure.Infrastructure
	api   *api.Module
	http  *httpServer
}

// NewServer builds every system and registers lifecycle hooks in dependency
// order: database, audit writer, HTTP listener. Shutdown runs them in reverse.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(ctx, cfg, infra)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, apiModule)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"model_available", apiModule.Domain.Decisions.Available(),
	)

	return &Server{
		infra: infra,
		api:   apiModule,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start begins serving and marks the service ready once startup hooks complete.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops the listener, drains the audit writer, and closes the database.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

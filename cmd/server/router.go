package main

import (
	"net/http"

	"github.com/JaimeStill/douane/internal/api"
	"github.com/JaimeStill/douane/internal/infrastructure"
	"github.com/JaimeStill/douane/pkg/handlers"
)

func buildRouter(infra *infrastructure.Infrastructure, apiModule *api.Module) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	router.Handle("/", apiModule.Handler())

	return router
}

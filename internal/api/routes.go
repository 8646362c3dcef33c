package api

import (
	"net/http"

	"github.com/JaimeStill/douane/pkg/handlers"
	"github.com/JaimeStill/douane/pkg/routes"
)

// RootMessage is returned by GET /.
const RootMessage = "Fraud Detection API is running."

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		rootRoutes(),
		domain.Metadata.Handler().Routes(),
		domain.Predictions.Handler(runtime.MaxBodySize).Routes(),
		domain.Audit.Handler().Routes(),
	)
}

func rootRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: root},
		},
	}
}

func root(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

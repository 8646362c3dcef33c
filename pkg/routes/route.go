package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Path joins the route pattern onto prefix. An empty result maps to the root path.
func (r Route) Path(prefix string) string {
	if p := prefix + r.Pattern; p != "" {
		return p
	}
	return "/"
}

// Package middleware provides the HTTP middleware applied around the API:
// request IDs, panic recovery, CORS, and request logging.
package middleware

import "net/http"

// Middleware wraps a handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The first layer added is the
// outermost when the stack is applied.
type Stack struct {
	layers []Middleware
}

// New creates a Stack holding layers in order. Nil layers are skipped.
func New(layers ...Middleware) *Stack {
	s := &Stack{}
	s.Use(layers...)
	return s
}

// Use appends layers to the stack. Nil layers are skipped.
func (s *Stack) Use(layers ...Middleware) {
	for _, mw := range layers {
		if mw != nil {
			s.layers = append(s.layers, mw)
		}
	}
}

// Apply wraps handler so that a request passes through the layers in the order they were added.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}

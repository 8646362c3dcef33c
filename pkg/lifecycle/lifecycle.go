// Package lifecycle coordinates startup and shutdown of long-running subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
//
// Startup hooks run concurrently. Shutdown hooks run one at a time in reverse
// registration order, so a subsystem registered early (the database) is released
// only after the subsystems registered later (queues, the HTTP server) have stopped.
type Coordinator struct {
	ctx       context.Context
	cancel    context.CancelFunc
	startupWg sync.WaitGroup

	hooksMu  sync.Mutex
	shutdown []func()

	ready   bool
	readyMu sync.RWMutex
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a cleanup function. Hooks execute sequentially, last registered first.
func (c *Coordinator) OnShutdown(fn func()) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.shutdown = append(c.shutdown, fn)
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the context and runs the shutdown hooks within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	c.readyMu.Lock()
	c.ready = false
	c.readyMu.Unlock()

	c.hooksMu.Lock()
	hooks := make([]func(), len(c.shutdown))
	copy(hooks, c.shutdown)
	c.hooksMu.Unlock()

	done := make(chan struct{})
	go func() {
		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

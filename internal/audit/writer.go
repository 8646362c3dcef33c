package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/douane/pkg/lifecycle"
)

// Appender is the write half of System.
type Appender interface {
	Append(ctx context.Context, rec Record) (int64, error)
}

// Writer appends records from a bounded queue on a fixed set of workers.
// Enqueue never blocks: when the queue is full, or the writer has stopped,
// the record is dropped and counted.
type Writer struct {
	store   Appender
	queue   chan Record
	workers int
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	closed  bool
	group   errgroup.Group
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewWriter creates a Writer. Workers are not started until Start.
func NewWriter(store Appender, cfg *Config, logger *slog.Logger) *Writer {
	return &Writer{
		store:   store,
		queue:   make(chan Record, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.AppendTimeoutDuration(),
		logger:  logger.With("system", "audit-writer"),
	}
}

// Start launches the workers and registers a shutdown hook that drains the queue.
func (w *Writer) Start(lc *lifecycle.Coordinator) error {
	w.logger.Info("starting audit writer", "workers", w.workers, "queue_size", cap(w.queue))

	for range w.workers {
		w.group.Go(func() error {
			w.run()
			return nil
		})
	}

	lc.OnShutdown(w.Close)
	return nil
}

// Enqueue schedules rec for persistence and reports whether it was accepted.
func (w *Writer) Enqueue(rec Record) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.dropped.Add(1)
		return false
	}

	select {
	case w.queue <- rec:
		return true
	default:
		w.dropped.Add(1)
		w.logger.Warn("audit queue full, record dropped", "prediction", rec.Prediction)
		return false
	}
}

// Close stops accepting records and waits for queued ones to be written.
// It is safe to call more than once.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.logger.Info("draining audit writer", "pending", len(w.queue))
	w.group.Wait()
	w.logger.Info(
		"audit writer stopped",
		"dropped", w.dropped.Load(),
		"failed", w.failed.Load(),
	)
}

// Dropped returns the number of records rejected by Enqueue.
func (w *Writer) Dropped() uint64 {
	return w.dropped.Load()
}

// Failed returns the number of records whose append returned an error.
func (w *Writer) Failed() uint64 {
	return w.failed.Load()
}

func (w *Writer) run() {
	for rec := range w.queue {
		w.write(rec)
	}
}

func (w *Writer) write(rec Record) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if _, err := w.store.Append(ctx, rec); err != nil {
		w.failed.Add(1)
		w.logger.Error("audit append failed", "prediction", rec.Prediction, "error", err)
	}
}

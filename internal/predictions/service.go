// Package predictions serves risk decisions for customs declarations and
// hands every decision to the audit log.
package predictions

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/douane/internal/audit"
	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/internal/decisions"
	"github.com/JaimeStill/douane/internal/features"
	"github.com/JaimeStill/douane/internal/metadata"
)

// AuditSink accepts records for best-effort persistence.
type AuditSink interface {
	Enqueue(rec audit.Record) bool
}

// Decider produces a decision for a feature vector.
type Decider interface {
	Decide(ctx context.Context, v features.Vector) (decisions.Decision, error)
}

// Result is the response body of a prediction.
type Result struct {
	Prediction  classifier.Label `json:"prediction"`
	Probability float64          `json:"probability"`
}

// Service runs the prediction pipeline: encode, decide, record.
type Service struct {
	decider Decider
	catalog metadata.Provider
	sink    AuditSink
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Service. A nil sink disables audit logging and a nil
// catalog disables the unknown-value check.
func New(decider Decider, catalog metadata.Provider, sink AuditSink, logger *slog.Logger) *Service {
	return &Service{
		decider: decider,
		catalog: catalog,
		sink:    sink,
		logger:  logger.With("system", "predictions"),
		now:     time.Now,
	}
}

// Handler returns the HTTP handler for the service.
func (s *Service) Handler(maxBodySize int64) *Handler {
	return NewHandler(s, s.logger, maxBodySize)
}

// Predict encodes in, obtains a decision, and schedules an audit record.
// The result does not depend on whether the record is accepted.
func (s *Service) Predict(ctx context.Context, in features.Input, origin string) (*Result, error) {
	v, err := features.Encode(in)
	if err != nil {
		return nil, err
	}

	s.checkKnown(v)

	d, err := s.decider.Decide(ctx, v)
	if err != nil {
		return nil, err
	}

	s.record(v, d, origin)

	return &Result{
		Prediction:  d.Label,
		Probability: d.Confidence,
	}, nil
}

func (s *Service) record(v features.Vector, d decisions.Decision, origin string) {
	if s.sink == nil {
		return
	}

	rec := audit.Record{
		Timestamp:   s.now().UTC(),
		ClientIP:    audit.TruncateClientIP(origin),
		Inputs:      v,
		Prediction:  string(d.Label),
		Probability: d.Confidence,
	}

	if !s.sink.Enqueue(rec) {
		s.logger.Warn("audit record not accepted", "prediction", rec.Prediction, "client_ip", rec.ClientIP)
	}
}

// Unknown returns the wire names of fields whose value in v is absent from
// a non-empty metadata list. Fields with no loaded values are not judged.
func Unknown(snap metadata.Snapshot, v features.Vector) []string {
	var unknown []string
	for _, f := range features.Fields() {
		if len(snap.Values(f)) == 0 {
			continue
		}
		if !snap.Contains(f, v.Get(f)) {
			unknown = append(unknown, f.String())
		}
	}
	return unknown
}

// checkKnown is advisory: the model still scores values it was not shown.
func (s *Service) checkKnown(v features.Vector) {
	if s.catalog == nil {
		return
	}
	if unknown := Unknown(s.catalog.Snapshot(), v); len(unknown) > 0 {
		s.logger.Debug("declaration has values outside metadata", "fields", unknown)
	}
}

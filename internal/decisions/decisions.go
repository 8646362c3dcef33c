// Package decisions turns raw classifier output into a final risk decision.
//
// The model may only assert a fraud-like label when it is confident; every
// other outcome collapses to NON_FRAUDE.
package decisions

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/internal/features"
)

// Threshold is the confidence a fraud-like prediction must strictly exceed to be kept.
const Threshold = 0.70

// tolerance absorbs floating point drift in classifier output.
const tolerance = 1e-9

// Decision is the final label and the rounded confidence behind it.
type Decision struct {
	Label      classifier.Label `json:"prediction"`
	Confidence float64          `json:"probability"`
}

// Engine applies the thresholding policy to a classifier.
type Engine struct {
	clf    classifier.Classifier
	logger *slog.Logger
}

// New creates an Engine. A nil classifier means the model failed to load;
// Decide then fails with ErrInferenceUnavailable.
func New(clf classifier.Classifier, logger *slog.Logger) *Engine {
	return &Engine{
		clf:    clf,
		logger: logger.With("system", "decisions"),
	}
}

// Available reports whether a classifier is loaded.
func (e *Engine) Available() bool {
	return e.clf != nil
}

// Decide scores v and applies the thresholding policy.
func (e *Engine) Decide(ctx context.Context, v features.Vector) (Decision, error) {
	if e.clf == nil {
		return Decision{}, ErrInferenceUnavailable
	}

	proba, err := e.clf.PredictProba(ctx, v)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: predict_proba: %w", ErrInference, err)
	}
	if len(proba) != len(classifier.Labels) {
		return Decision{}, fmt.Errorf("%w: %d probabilities, want %d", ErrInference, len(proba), len(classifier.Labels))
	}

	idx, err := e.clf.Predict(ctx, v)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: predict: %w", ErrInference, err)
	}
	label, ok := classifier.LabelAt(idx)
	if !ok {
		return Decision{}, fmt.Errorf("%w: class index %d out of range", ErrInference, idx)
	}

	confidence, err := Confidence(proba)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Label:      ApplyThreshold(label, confidence),
		Confidence: confidence,
	}

	e.logger.DebugContext(ctx, "decision",
		"model", e.clf.Name(),
		"raw", label,
		"final", d.Label,
		"confidence", d.Confidence,
	)
	return d, nil
}

// Confidence returns the largest probability rounded to two decimals.
func Confidence(proba []float64) (float64, error) {
	if len(proba) == 0 {
		return 0, fmt.Errorf("%w: no probabilities", ErrInference)
	}

	peak := math.Inf(-1)
	for _, p := range proba {
		if math.IsNaN(p) || p < -tolerance || p > 1+tolerance {
			return 0, fmt.Errorf("%w: probability %v outside [0,1]", ErrInference, p)
		}
		peak = max(peak, p)
	}
	return math.Round(min(peak, 1)*100) / 100, nil
}

// ApplyThreshold keeps label only when it is fraud-like and confidence exceeds Threshold.
func ApplyThreshold(label classifier.Label, confidence float64) classifier.Label {
	if confidence > Threshold && label.Fraudulent() {
		return label
	}
	return classifier.NoFraud
}

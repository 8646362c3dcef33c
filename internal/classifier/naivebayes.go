package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/JaimeStill/douane/internal/features"
)

// Artifact is the JSON export of a categorical naive Bayes model.
// LogProb for a feature is indexed [class][category].
type Artifact struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Classes       []Label           `json:"classes"`
	ClassLogPrior []float64         `json:"class_log_prior"`
	Features      []ArtifactFeature `json:"features"`
}

// ArtifactFeature holds the category vocabulary and per-class log likelihoods of one field.
type ArtifactFeature struct {
	Name       string      `json:"name"`
	Categories []string    `json:"categories"`
	LogProb    [][]float64 `json:"log_prob"`
}

type nbFeature struct {
	index   map[string]int
	logProb [][]float64
}

// NaiveBayes evaluates a categorical naive Bayes artifact in process.
// A category unseen during training contributes nothing to the class scores.
type NaiveBayes struct {
	name     string
	prior    []float64
	features [features.Count]nbFeature
}

// ReadArtifact decodes and validates an artifact, returning a ready classifier.
func ReadArtifact(r io.Reader) (*NaiveBayes, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidArtifact, err)
	}
	return NewNaiveBayes(a)
}

// NewNaiveBayes validates a against the fixed label and field orderings.
func NewNaiveBayes(a Artifact) (*NaiveBayes, error) {
	if len(a.Classes) != len(Labels) {
		return nil, fmt.Errorf("%w: %d classes, want %d", ErrInvalidArtifact, len(a.Classes), len(Labels))
	}
	for i, c := range a.Classes {
		if c != Labels[i] {
			return nil, fmt.Errorf("%w: class %d is %q, want %q", ErrInvalidArtifact, i, c, Labels[i])
		}
	}
	if len(a.ClassLogPrior) != len(Labels) {
		return nil, fmt.Errorf("%w: class_log_prior has %d entries", ErrInvalidArtifact, len(a.ClassLogPrior))
	}
	if len(a.Features) != features.Count {
		return nil, fmt.Errorf("%w: %d features, want %d", ErrInvalidArtifact, len(a.Features), features.Count)
	}

	nb := &NaiveBayes{
		name:  a.Name,
		prior: a.ClassLogPrior,
	}
	if nb.name == "" {
		nb.name = "naive-bayes"
	}
	if a.Version != "" {
		nb.name += "@" + a.Version
	}

	for _, f := range features.Fields() {
		af := a.Features[f]
		if af.Name != f.String() {
			return nil, fmt.Errorf("%w: feature %d is %q, want %q", ErrInvalidArtifact, f, af.Name, f)
		}
		if len(af.LogProb) != len(Labels) {
			return nil, fmt.Errorf("%w: %s log_prob has %d classes", ErrInvalidArtifact, f, len(af.LogProb))
		}
		for c, row := range af.LogProb {
			if len(row) != len(af.Categories) {
				return nil, fmt.Errorf("%w: %s class %d has %d entries for %d categories",
					ErrInvalidArtifact, f, c, len(row), len(af.Categories))
			}
		}

		index := make(map[string]int, len(af.Categories))
		for i, cat := range af.Categories {
			index[features.Normalize(cat)] = i
		}
		nb.features[f] = nbFeature{index: index, logProb: af.LogProb}
	}

	return nb, nil
}

func (nb *NaiveBayes) Name() string {
	return nb.name
}

func (nb *NaiveBayes) Predict(_ context.Context, v features.Vector) (int, error) {
	jll := nb.jointLogLikelihood(v)
	best := 0
	for c := 1; c < len(jll); c++ {
		if jll[c] > jll[best] {
			best = c
		}
	}
	return best, nil
}

func (nb *NaiveBayes) PredictProba(_ context.Context, v features.Vector) ([]float64, error) {
	jll := nb.jointLogLikelihood(v)

	peak := jll[0]
	for _, x := range jll[1:] {
		peak = max(peak, x)
	}

	sum := 0.0
	proba := make([]float64, len(jll))
	for c, x := range jll {
		proba[c] = math.Exp(x - peak)
		sum += proba[c]
	}
	for c := range proba {
		proba[c] /= sum
	}
	return proba, nil
}

func (nb *NaiveBayes) jointLogLikelihood(v features.Vector) []float64 {
	jll := make([]float64, len(nb.prior))
	copy(jll, nb.prior)

	for _, f := range features.Fields() {
		feat := nb.features[f]
		idx, ok := feat.index[v.Get(f)]
		if !ok {
			continue
		}
		for c := range jll {
			jll[c] += feat.logProb[c][idx]
		}
	}
	return jll
}

// Package classifier exposes the pre-trained fraud risk model as an opaque capability.
// Implementations score a feature vector against the four fixed risk labels.
package classifier

import (
	"context"

	"github.com/JaimeStill/douane/internal/features"
)

// Label is a risk category produced by the classifier.
type Label string

// Risk labels. The classifier emits the index of one of these in Labels order.
const (
	Exception   Label = "EXC"
	FraudExport Label = "FDE"
	FraudValue  Label = "FDV"
	NoFraud     Label = "NON_FRAUDE"
)

// Labels is the fixed class ordering shared with the trained model.
var Labels = [...]Label{Exception, FraudExport, FraudValue, NoFraud}

// LabelAt maps a class index to its label.
func LabelAt(i int) (Label, bool) {
	if i < 0 || i >= len(Labels) {
		return "", false
	}
	return Labels[i], true
}

// Fraudulent reports whether l is one of the fraud-like outcomes.
func (l Label) Fraudulent() bool {
	return l == Exception || l == FraudExport || l == FraudValue
}

// Classifier scores a feature vector.
type Classifier interface {
	// Name identifies the loaded model for logging.
	Name() string
	// Predict returns the index into Labels of the predicted class.
	Predict(ctx context.Context, v features.Vector) (int, error)
	// PredictProba returns one probability per entry of Labels.
	PredictProba(ctx context.Context, v features.Vector) ([]float64, error)
}

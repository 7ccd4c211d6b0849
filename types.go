package ovassess

import (
	"context"

	"github.com/oncorisk/ovassess/advice"
	"github.com/oncorisk/ovassess/featureset"
	"github.com/oncorisk/ovassess/risk"
)

// Prediction is the classifier's raw output for one feature vector.
//
// Label is population membership (0 = no disease indicated, 1 = disease
// indicated) as decided by the artifact's own decision boundary, which is
// not necessarily 0.5. Probability is the score for the positive class.
// Downstream code must never recompute one from the other.
type Prediction struct {
	Label       int
	Probability float64
}

// Classifier scores reconciled feature vectors. The handle is treated as
// read-only after load and must be safe for concurrent scoring.
type Classifier interface {
	// Schema is the ordered field set the artifact was trained on,
	// resolved from the artifact's own metadata.
	Schema() *featureset.Schema

	// Predict scores a vector aligned to Schema.
	Predict(ctx context.Context, vec featureset.Vector) (Prediction, error)
}

// Request carries one assessment request: raw lab-value strings keyed by
// schema field name, plus the lifestyle factors that never reach the
// classifier.
type Request struct {
	Values  map[string]string
	Factors risk.FactorInput
}

// Assessment is the completed caller-facing result.
type Assessment struct {
	ID              string              `json:"id"`
	RiskLevel       risk.Level          `json:"risk_level"`
	Probability     float64             `json:"probability"`
	BaseProbability float64             `json:"base_probability"`
	Label           int                 `json:"label"`
	RiskDetails     []risk.FactorDetail `json:"risk_details"`
	Advice          advice.Sections     `json:"advice"`
	UsedFallback    bool                `json:"used_fallback"`
}

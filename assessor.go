// Package ovassess assesses a patient's probability of ovarian cancer from
// tabular lab-marker values. It reconciles untrusted form input against the
// loaded classifier's schema, scores it, blends in deterministic lifestyle
// risk increments, and attaches a narrative advice bundle that degrades to a
// deterministic generator when the remote narrative service is unavailable.
package ovassess

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oncorisk/ovassess/advice"
	"github.com/oncorisk/ovassess/featureset"
	"github.com/oncorisk/ovassess/risk"
)

// Assessor runs the full prediction pipeline for one request at a time. It
// holds no per-request state and is safe for concurrent use as long as its
// classifier is.
type Assessor struct {
	classifier Classifier
	advice     *advice.Pipeline
	adjuster   *risk.Adjuster
	logger     *zap.Logger
}

// NewAssessor creates an Assessor with the given configuration.
func NewAssessor(cfg Config) (*Assessor, error) {
	cfg.applyDefaults()

	adjuster, err := risk.NewAdjuster(cfg.RiskPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid assessor config: %w", err)
	}

	return &Assessor{
		classifier: cfg.Classifier,
		advice:     cfg.Advice,
		adjuster:   adjuster,
		logger:     cfg.Logger,
	}, nil
}

// Assess runs reconciliation, scoring, risk adjustment and advice
// generation for one request.
//
// Malformed individual field values are corrected silently during
// reconciliation. Classifier problems bubble as ErrModelUnavailable or
// *InferenceError. Advice generation cannot fail the request: a narrative
// failure yields the deterministic fallback bundle.
func (a *Assessor) Assess(ctx context.Context, req Request) (*Assessment, error) {
	if a.classifier == nil {
		return nil, ErrModelUnavailable
	}
	schema := a.classifier.Schema()
	if schema == nil {
		return nil, ErrModelUnavailable
	}

	vec := featureset.Reconcile(schema, req.Values)

	pred, err := a.classifier.Predict(ctx, vec)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			return nil, err
		}
		a.logger.Error("classifier scoring failed", zap.Error(err))
		return nil, &InferenceError{Err: err}
	}

	adjusted, details := a.adjuster.Adjust(pred.Probability, req.Factors)
	level := risk.LevelFor(adjusted)

	sections, provenance := a.advice.Generate(ctx, summaryFrom(vec), adjusted, level)

	return &Assessment{
		ID:              uuid.New().String(),
		RiskLevel:       level,
		Probability:     adjusted,
		BaseProbability: pred.Probability,
		Label:           pred.Label,
		RiskDetails:     details,
		Advice:          sections,
		UsedFallback:    provenance == advice.ProvenanceFallback,
	}, nil
}

// summaryFrom projects the advice-relevant values out of a reconciled
// vector. A schema variant that lacks a marker contributes that marker's
// canonical baseline instead.
func summaryFrom(vec featureset.Vector) advice.PatientSummary {
	value := func(name string) float64 {
		if v, ok := vec.Value(name); ok {
			return v
		}
		return featureset.DefaultField(name).Default
	}

	return advice.PatientSummary{
		Age:            int(value(featureset.FieldAge)),
		Postmenopausal: value(featureset.FieldMenopause) != 0,
		CA125:          value(featureset.FieldCA125),
		HE4:            value(featureset.FieldHE4),
		CA199:          value(featureset.FieldCA199),
		CEA:            value(featureset.FieldCEA),
		AFP:            value(featureset.FieldAFP),
	}
}

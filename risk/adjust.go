package risk

import (
	"fmt"
	"math"
)

// Policy selects how risk-factor increments are blended into the model's
// probability. There is no default: the caller must pick one explicitly.
type Policy string

const (
	// PolicyAdditive applies the summed increments as a flat shift:
	// final = min(0.95, p + r).
	PolicyAdditive Policy = "additive"

	// PolicyProportional scales the summed increments by the existing
	// biomarker-driven probability: final = min(0.95, p + r*p). Lifestyle
	// factors then cannot dominate when the markers already indicate
	// near-zero or near-maximal risk.
	PolicyProportional Policy = "proportional"
)

// MaxProbability is the ceiling an adjusted probability is clamped to,
// regardless of how many risk factors trigger.
const MaxProbability = 0.95

// Ordinal encodings for FactorInput, matching the intake form.
const (
	FamilyNone        = 0
	FamilyFirstDegree = 1
	FamilyMultiple    = 2

	SmokingNever   = 0
	SmokingFormer  = 1
	SmokingCurrent = 2

	// AlcoholHeavyThreshold is the consumption ordinal at or above which
	// alcohol contributes to the adjustment.
	AlcoholHeavyThreshold = 3
)

// Evidence-weighted increments per triggered factor.
const (
	incrFamilyFirstDegree = 0.10
	incrFamilyMultiple    = 0.15
	incrSmokingFormer     = 0.02
	incrSmokingCurrent    = 0.05
	incrAlcoholHeavy      = 0.02
)

// FactorInput carries the non-biomarker risk factors. These are supplied
// independently of the feature vector and are never sent to the classifier.
type FactorInput struct {
	FamilyHistory int
	Smoking       int
	Alcohol       int
}

// FactorDetail is a human-readable record of one triggered increment.
type FactorDetail struct {
	Factor   string  `json:"factor"`
	Increase float64 `json:"increase"`
	Details  string  `json:"details"`
}

// Adjuster blends deterministic risk-factor increments into a base
// probability under a fixed policy.
type Adjuster struct {
	policy Policy
}

// NewAdjuster builds an adjuster for the given policy. An unset or unknown
// policy is rejected so the blending behavior is never chosen silently.
func NewAdjuster(p Policy) (*Adjuster, error) {
	switch p {
	case PolicyAdditive, PolicyProportional:
		return &Adjuster{policy: p}, nil
	case "":
		return nil, fmt.Errorf("risk policy must be set explicitly (%q or %q)", PolicyAdditive, PolicyProportional)
	default:
		return nil, fmt.Errorf("unknown risk policy %q", p)
	}
}

// Policy returns the configured blending policy.
func (a *Adjuster) Policy() Policy {
	return a.policy
}

// Adjust applies the configured policy to the base probability and returns
// the adjusted value together with an ordered record of every triggered
// increment. The adjusted probability never decreases below what the policy
// formula yields for the base and is always clamped to MaxProbability.
func (a *Adjuster) Adjust(base float64, in FactorInput) (float64, []FactorDetail) {
	details := collectFactors(in)

	var additional float64
	for _, d := range details {
		additional += d.Increase
	}

	var final float64
	switch a.policy {
	case PolicyProportional:
		final = base + additional*base
	default:
		final = base + additional
	}

	return math.Min(MaxProbability, final), details
}

// collectFactors evaluates the fixed increment tables in a stable order:
// family history, then smoking, then alcohol.
func collectFactors(in FactorInput) []FactorDetail {
	details := []FactorDetail{}

	switch {
	case in.FamilyHistory >= FamilyMultiple:
		details = append(details, FactorDetail{
			Factor:   "family_history",
			Increase: incrFamilyMultiple,
			Details:  "Multiple relatives with ovarian or breast cancer",
		})
	case in.FamilyHistory == FamilyFirstDegree:
		details = append(details, FactorDetail{
			Factor:   "family_history",
			Increase: incrFamilyFirstDegree,
			Details:  "First-degree relative with ovarian or breast cancer",
		})
	}

	switch {
	case in.Smoking >= SmokingCurrent:
		details = append(details, FactorDetail{
			Factor:   "smoking",
			Increase: incrSmokingCurrent,
			Details:  "Current smoker",
		})
	case in.Smoking == SmokingFormer:
		details = append(details, FactorDetail{
			Factor:   "smoking",
			Increase: incrSmokingFormer,
			Details:  "Former smoker",
		})
	}

	if in.Alcohol >= AlcoholHeavyThreshold {
		details = append(details, FactorDetail{
			Factor:   "alcohol",
			Increase: incrAlcoholHeavy,
			Details:  "Heavy alcohol consumption",
		})
	}

	return details
}

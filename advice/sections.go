package advice

// Placeholder is the value the narrative service (and historical parsers)
// emit for a section it could not fill. A placeholder anywhere in the bundle
// rejects the whole bundle.
const Placeholder = "Information not available"

// WellnessTipCount is the exact number of wellness tips a complete bundle
// carries.
const WellnessTipCount = 3

// Provenance records where an advice bundle came from.
type Provenance string

const (
	ProvenanceRemote   Provenance = "remote"
	ProvenanceFallback Provenance = "fallback"
)

// Sections is the fixed-key advice bundle. The four narrative sections hold
// formatted markup; WellnessTips is always an ordered list of exactly
// WellnessTipCount entries once the pipeline terminates.
type Sections struct {
	RiskFactors  string   `json:"risk_factors"`
	Diet         string   `json:"diet"`
	Exercise     string   `json:"exercise"`
	WarningSigns string   `json:"warning_signs"`
	WellnessTips []string `json:"wellness_tips"`
}

// complete is the validation gate: every section present, no placeholders,
// and exactly WellnessTipCount substantive tips. Partial bundles are never
// patched key-by-key; an incomplete bundle is discarded outright.
func (s Sections) complete() bool {
	for _, text := range []string{s.RiskFactors, s.Diet, s.Exercise, s.WarningSigns} {
		if text == "" || text == Placeholder {
			return false
		}
	}
	if len(s.WellnessTips) != WellnessTipCount {
		return false
	}
	for _, tip := range s.WellnessTips {
		if tip == "" || tip == Placeholder {
			return false
		}
	}
	return true
}

// PatientSummary carries the feature-derived values the advice pipeline
// personalizes on. Marker values are in their conventional lab units.
type PatientSummary struct {
	Age            int
	Postmenopausal bool
	CA125          float64
	HE4            float64
	CA199          float64
	CEA            float64
	AFP            float64
}

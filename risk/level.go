package risk

// Level is the categorical risk bucket derived from an adjusted probability.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// LevelFor maps a probability to its risk level. Both boundaries are
// exclusive: exactly 0.30 is still low and exactly 0.70 is still medium.
// This function is the single source of truth for risk labels; nothing else
// may re-derive the bucket.
func LevelFor(p float64) Level {
	switch {
	case p > 0.70:
		return LevelHigh
	case p > 0.30:
		return LevelMedium
	default:
		return LevelLow
	}
}

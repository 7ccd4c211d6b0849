package ovassess

import (
	"go.uber.org/zap"

	"github.com/oncorisk/ovassess/advice"
	"github.com/oncorisk/ovassess/risk"
)

// Config holds configuration for the Assessor.
type Config struct {
	// Classifier scores feature vectors. If nil, every assessment fails
	// with ErrModelUnavailable.
	Classifier Classifier

	// Advice generates the narrative bundle. If nil, a fallback-only
	// pipeline is used.
	Advice *advice.Pipeline

	// RiskPolicy selects the probability blending policy. It has no
	// default: NewAssessor rejects an unset policy.
	RiskPolicy risk.Policy

	// Logger records inference failures and advice degradation. If nil,
	// uses a no-op logger.
	Logger *zap.Logger
}

// applyDefaults fills in default values for unset config fields. RiskPolicy
// is deliberately excluded: the blending policy is never chosen silently.
func (c *Config) applyDefaults() {
	if c.Advice == nil {
		c.Advice = advice.NewPipeline(advice.Config{Logger: c.Logger})
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

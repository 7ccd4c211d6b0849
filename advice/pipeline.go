package advice

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/oncorisk/ovassess/risk"
)

const (
	// DefaultTimeout bounds the remote narrative call. Past it the
	// pipeline proceeds to fallback instead of hanging the request.
	DefaultTimeout = 45 * time.Second

	// DefaultCacheTTL is how long a remote bundle is reused for an
	// identical patient summary.
	DefaultCacheTTL = 15 * time.Minute
)

// Narrator produces free-text advice from a system+user prompt pair. Any
// error is treated as a uniform "unavailable" signal.
type Narrator interface {
	Narrate(ctx context.Context, system, user string) (string, error)
}

// Config holds configuration for the Pipeline.
type Config struct {
	// Narrator generates the remote narrative. If nil, every request is
	// served by the deterministic fallback.
	Narrator Narrator

	// Timeout bounds the remote call. If 0, uses DefaultTimeout.
	Timeout time.Duration

	// CacheTTL controls reuse of remote bundles. If 0, uses
	// DefaultCacheTTL; if negative, caching is disabled.
	CacheTTL time.Duration

	// Logger records remote failures. If nil, uses a no-op logger.
	Logger *zap.Logger
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Pipeline turns an assessment into a complete advice bundle. It attempts
// the remote narrator first and degrades to the deterministic generator;
// it never returns an error and never returns a partial bundle.
type Pipeline struct {
	narrator Narrator
	timeout  time.Duration
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg Config) *Pipeline {
	cfg.applyDefaults()

	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Pipeline{
		narrator: cfg.Narrator,
		timeout:  cfg.Timeout,
		cache:    c,
		logger:   cfg.Logger,
	}
}

// Generate produces the advice bundle for an adjusted assessment. The
// returned bundle is always complete; the provenance tag says whether it
// came from the remote service or the fallback generator.
func (p *Pipeline) Generate(ctx context.Context, sum PatientSummary, probability float64, level risk.Level) (Sections, Provenance) {
	key := cacheKey(sum, probability, level)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			return cached.(Sections), ProvenanceRemote
		}
	}

	sections, ok := p.remote(ctx, sum, probability, level)
	if !ok {
		return fallbackSections(level, sum), ProvenanceFallback
	}

	if p.cache != nil {
		p.cache.SetDefault(key, sections)
	}
	return sections, ProvenanceRemote
}

// remote attempts the narrative call and parse. Any failure, timeout or
// incomplete bundle reports !ok so the caller falls back; nothing bubbles.
func (p *Pipeline) remote(ctx context.Context, sum PatientSummary, probability float64, level risk.Level) (Sections, bool) {
	if p.narrator == nil {
		return Sections{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.narrator.Narrate(ctx, systemPrompt, buildPrompt(sum, probability, level))
	if err != nil {
		p.logger.Warn("narrative service unavailable, using fallback advice",
			zap.String("risk_level", string(level)),
			zap.Error(err))
		return Sections{}, false
	}

	sections := extractSections(text)
	if !sections.complete() {
		p.logger.Warn("narrative response incomplete, using fallback advice",
			zap.String("risk_level", string(level)))
		return Sections{}, false
	}

	return sections, true
}

func cacheKey(sum PatientSummary, probability float64, level risk.Level) string {
	return fmt.Sprintf("%d|%t|%.3f|%.1f|%.1f|%.1f|%.1f|%.1f|%s",
		sum.Age, sum.Postmenopausal, probability,
		sum.CA125, sum.HE4, sum.CA199, sum.CEA, sum.AFP, level)
}

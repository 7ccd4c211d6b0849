// Package server exposes the assessment pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oncorisk/ovassess"
	"github.com/oncorisk/ovassess/featureset"
	"github.com/oncorisk/ovassess/risk"
)

// formFields maps the intake form's parameter names to classifier field
// names. Form parameters not listed here (and lifestyle ordinals, which are
// not model features) never reach reconciliation.
var formFields = map[string]string{
	"age":       featureset.FieldAge,
	"menopause": featureset.FieldMenopause,
	"ggt":       featureset.FieldGGT,
	"hgb":       featureset.FieldHGB,
	"afp":       featureset.FieldAFP,
	"ca72_4":    featureset.FieldCA724,
	"alp":       featureset.FieldALP,
	"ca19_9":    featureset.FieldCA199,
	"he4":       featureset.FieldHE4,
	"cea":       featureset.FieldCEA,
	"ca125":     featureset.FieldCA125,
	"ca":        featureset.FieldCalcium,
}

// AssessmentStore persists completed assessments.
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, a *ovassess.Assessment) error
	Ping(ctx context.Context) error
}

// Server wires the assessor into a gin router.
type Server struct {
	assessor *ovassess.Assessor
	store    AssessmentStore
	logger   *zap.Logger
}

// New creates a Server. store may be nil to disable persistence.
func New(assessor *ovassess.Assessor, store AssessmentStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{assessor: assessor, store: store, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", s.handleHealth)
	router.GET("/readyz", s.handleReady)
	router.POST("/predict_lab", s.handlePredict)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

// predictResponse is the wire shape of a completed assessment. Probability
// is pre-formatted for display; clients needing the raw number read
// probability_raw.
type predictResponse struct {
	ID             string              `json:"id"`
	RiskLevel      string              `json:"risk_level"`
	Probability    string              `json:"probability"`
	ProbabilityRaw float64             `json:"probability_raw"`
	RiskDetails    []risk.FactorDetail `json:"risk_details"`
	Advice         adviceResponse      `json:"advice"`
	UsedFallback   bool                `json:"used_fallback"`
}

type adviceResponse struct {
	RiskFactors  string   `json:"risk_factors"`
	Diet         string   `json:"diet"`
	Exercise     string   `json:"exercise"`
	WarningSigns string   `json:"warning_signs"`
	WellnessTips []string `json:"wellness_tips"`
}

func (s *Server) handlePredict(c *gin.Context) {
	req := requestFromForm(c)

	res, err := s.assessor.Assess(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ovassess.ErrModelUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction unavailable"})
			return
		}
		s.logger.Error("assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	if s.store != nil {
		if err := s.store.SaveAssessment(c.Request.Context(), res); err != nil {
			s.logger.Warn("assessment not persisted", zap.String("id", res.ID), zap.Error(err))
		}
	}

	// Results carry patient-derived content; keep them out of shared caches.
	c.Header("Cache-Control", "no-store")

	c.JSON(http.StatusOK, predictResponse{
		ID:             res.ID,
		RiskLevel:      strings.ToUpper(string(res.RiskLevel)),
		Probability:    fmt.Sprintf("%.1f%%", res.Probability*100),
		ProbabilityRaw: res.Probability,
		RiskDetails:    res.RiskDetails,
		Advice: adviceResponse{
			RiskFactors:  res.Advice.RiskFactors,
			Diet:         res.Advice.Diet,
			Exercise:     res.Advice.Exercise,
			WarningSigns: res.Advice.WarningSigns,
			WellnessTips: res.Advice.WellnessTips,
		},
		UsedFallback: res.UsedFallback,
	})
}

// requestFromForm collects the known form parameters. Values pass through as
// strings; reconciliation owns parsing and default substitution.
func requestFromForm(c *gin.Context) ovassess.Request {
	values := make(map[string]string, len(formFields))
	for param, field := range formFields {
		if v, ok := c.GetPostForm(param); ok {
			values[field] = v
		}
	}

	return ovassess.Request{
		Values: values,
		Factors: risk.FactorInput{
			FamilyHistory: ordinalParam(c, "family_history"),
			Smoking:       ordinalParam(c, "smoking"),
			Alcohol:       ordinalParam(c, "alcohol"),
		},
	}
}

// ordinalParam reads a lifestyle ordinal, treating absent or malformed
// values as the factor's absent tier.
func ordinalParam(c *gin.Context, name string) int {
	v, ok := c.GetPostForm(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

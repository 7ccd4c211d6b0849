// Package testutil provides hand-rolled mocks for the assessor's injectable
// collaborators.
package testutil

import (
	"context"
	"sync"

	"github.com/oncorisk/ovassess"
	"github.com/oncorisk/ovassess/featureset"
)

// MockClassifier is a mock implementation of ovassess.Classifier.
type MockClassifier struct {
	SchemaValue *featureset.Schema
	PredictFunc func(ctx context.Context, vec featureset.Vector) (ovassess.Prediction, error)

	mu         sync.Mutex
	CallCount  int
	LastVector featureset.Vector
}

// NewMockClassifier returns a mock bound to the reduced schema that scores
// everything as a 0.5-probability negative.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{SchemaValue: featureset.ReducedSchema()}
}

func (m *MockClassifier) Schema() *featureset.Schema {
	return m.SchemaValue
}

func (m *MockClassifier) Predict(ctx context.Context, vec featureset.Vector) (ovassess.Prediction, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastVector = vec
	m.mu.Unlock()

	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, vec)
	}
	return ovassess.Prediction{Label: 0, Probability: 0.5}, nil
}

// MockNarrator is a mock implementation of advice.Narrator.
type MockNarrator struct {
	NarrateFunc func(ctx context.Context, system, user string) (string, error)

	mu         sync.Mutex
	CallCount  int
	LastSystem string
	LastUser   string
}

func (m *MockNarrator) Narrate(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastSystem = system
	m.LastUser = user
	m.mu.Unlock()

	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, system, user)
	}
	return "", nil
}

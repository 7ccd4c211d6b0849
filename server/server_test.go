package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncorisk/ovassess"
	"github.com/oncorisk/ovassess/featureset"
	"github.com/oncorisk/ovassess/risk"
	"github.com/oncorisk/ovassess/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockStore struct {
	mu      sync.Mutex
	saved   []*ovassess.Assessment
	saveErr error
	pingErr error
}

func (m *mockStore) SaveAssessment(_ context.Context, a *ovassess.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockStore) Ping(context.Context) error {
	return m.pingErr
}

func newTestServer(t *testing.T, clf *testutil.MockClassifier, store AssessmentStore) *Server {
	t.Helper()
	cfg := ovassess.Config{RiskPolicy: risk.PolicyAdditive}
	if clf != nil {
		cfg.Classifier = clf
	}
	assessor, err := ovassess.NewAssessor(cfg)
	require.NoError(t, err)
	return New(assessor, store, nil)
}

func postForm(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict_lab", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredict_Success(t *testing.T) {
	clf := testutil.NewMockClassifier()
	clf.PredictFunc = func(ctx context.Context, vec featureset.Vector) (ovassess.Prediction, error) {
		return ovassess.Prediction{Label: 1, Probability: 0.20}, nil
	}

	store := &mockStore{}
	router := newTestServer(t, clf, store).Router()

	w := postForm(router, url.Values{
		"age":            {"62"},
		"menopause":      {"1"},
		"ca125":          {"312.7"},
		"family_history": {"2"},
		"smoking":        {"2"},
		"alcohol":        {"3"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "MEDIUM", resp.RiskLevel)
	assert.Equal(t, "42.0%", resp.Probability)
	assert.InDelta(t, 0.42, resp.ProbabilityRaw, 1e-9)
	assert.Len(t, resp.RiskDetails, 3)
	assert.True(t, resp.UsedFallback)
	assert.Len(t, resp.Advice.WellnessTips, 3)

	// Form values were translated to classifier field names.
	ca125, ok := clf.LastVector.Value(featureset.FieldCA125)
	require.True(t, ok)
	assert.Equal(t, 312.7, ca125)

	// The completed assessment was persisted.
	require.Len(t, store.saved, 1)
	assert.Equal(t, resp.ID, store.saved[0].ID)
}

func TestPredict_UnknownAndMalformedParams(t *testing.T) {
	clf := testutil.NewMockClassifier()
	router := newTestServer(t, clf, nil).Router()

	w := postForm(router, url.Values{
		"age":            {"not-a-number"},
		"debug":          {"1"},
		"family_history": {"lots"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Malformed age fell back to its baseline; the bogus ordinal read as
	// absent, so no risk factors applied.
	age, _ := clf.LastVector.Value(featureset.FieldAge)
	assert.Equal(t, 45.0, age)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.RiskDetails)
}

func TestPredict_ModelUnavailableIs503(t *testing.T) {
	router := newTestServer(t, nil, nil).Router()

	w := postForm(router, url.Values{"age": {"50"}})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "prediction unavailable")
}

func TestPredict_ScoringFailureIs500(t *testing.T) {
	clf := testutil.NewMockClassifier()
	clf.PredictFunc = func(ctx context.Context, vec featureset.Vector) (ovassess.Prediction, error) {
		return ovassess.Prediction{}, errors.New("session exploded")
	}
	router := newTestServer(t, clf, nil).Router()

	w := postForm(router, url.Values{"age": {"50"}})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "prediction failed")
	// Internal detail never leaks.
	assert.NotContains(t, w.Body.String(), "session exploded")
}

func TestPredict_StoreFailureDoesNotFailRequest(t *testing.T) {
	store := &mockStore{saveErr: errors.New("db down")}
	router := newTestServer(t, testutil.NewMockClassifier(), store).Router()

	w := postForm(router, url.Values{"age": {"50"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestServer(t, testutil.NewMockClassifier(), nil).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}

func TestReady_DegradedStore(t *testing.T) {
	store := &mockStore{pingErr: errors.New("no route to host")}
	router := newTestServer(t, testutil.NewMockClassifier(), store).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/service"
	"github.com/truenorthhq/compass/internal/store"
	"go.uber.org/zap"
)

func newStateRouter(t *testing.T) (*chi.Mux, *service.StateService) {
	t.Helper()
	logger := zap.NewNop()
	svc := service.NewStateService(store.NewStateStore("test-org"), logger)
	checker := service.NewCoherenceChecker(logger)
	classifier := service.NewDriftClassifier(logger)
	reflection := service.NewReflectionService(svc, checker, classifier, logger)
	h := NewStateHandler(svc, checker, classifier, reflection)

	r := chi.NewRouter()
	r.Get("/state/snapshot", h.GetSnapshot)
	r.Get("/state/coherence", h.CheckCoherence)
	r.Post("/state/drift", h.ClassifyDrift)
	r.Post("/state/drift/events", h.ClassifyDriftEvents)
	r.Post("/state/reflect", h.Reflect)
	r.Get("/state/reflect/history", h.History)
	r.Get("/state/revisions/{kind}/{id}", h.GetRevisions)
	return r, svc
}

func TestCheckCoherence_EmptyState(t *testing.T) {
	r, _ := newStateRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/state/coherence", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var score service.CoherenceScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 0.5, score.Overall)
	assert.Len(t, score.Issues, 3)
}

func TestClassifyDrift(t *testing.T) {
	r, _ := newStateRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/state/drift", map[string]any{
		"before": map[string]any{
			"belief_desire_alignment":    0.7,
			"desire_intention_alignment": 0.7,
			"belief_intention_alignment": 0.7,
			"overall":                    0.7,
		},
		"after": map[string]any{
			"belief_desire_alignment":    0.8,
			"desire_intention_alignment": 0.8,
			"belief_intention_alignment": 0.8,
			"overall":                    0.8,
		},
		"elapsed_days": 7,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.DriftClassification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.DriftHealthyAdaptation, result.Category)
}

func TestClassifyDriftEvents_RejectsInvalidEvent(t *testing.T) {
	r, _ := newStateRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/state/drift/events", map[string]any{
		"events": []map[string]any{
			{"category": "stale_beliefs", "severity": "catastrophic"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyDriftEvents(t *testing.T) {
	r, _ := newStateRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/state/drift/events", map[string]any{
		"events": []map[string]any{
			{"category": "stale_beliefs", "description": "belief b1 unreviewed"},
			{"category": "stale_beliefs"},
			{"category": "intention_drift"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.DriftClassification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.DriftStaleBeliefs, result.Category)
	assert.Equal(t, 0.6667, result.Confidence)
}

func TestReflectAndHistory(t *testing.T) {
	r, _ := newStateRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/state/reflect", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var first service.ReflectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Nil(t, first.Drift)

	rec = doJSON(t, r, http.MethodPost, "/state/reflect", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var second service.ReflectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.NotNil(t, second.Drift)

	rec = doJSON(t, r, http.MethodGet, "/state/reflect/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []service.CoherenceCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 2)
}

func TestGetRevisions(t *testing.T) {
	r, svc := newStateRouter(t)

	b, err := domain.NewBelief("b1", "content", 0.5, domain.BeliefActive, "", nil)
	require.NoError(t, err)
	require.NoError(t, svc.AddBelief(context.Background(), b))

	rec := doJSON(t, r, http.MethodGet, "/state/revisions/belief/b1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var revisions []domain.Revision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &revisions))
	assert.Len(t, revisions, 1)

	// No revisions is an empty array, never null.
	rec = doJSON(t, r, http.MethodGet, "/state/revisions/belief/other", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/state/revisions/feelings/b1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

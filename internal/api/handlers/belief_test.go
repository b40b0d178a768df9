package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/service"
	"github.com/truenorthhq/compass/internal/store"
	"go.uber.org/zap"
)

func newBeliefRouter(t *testing.T) *chi.Mux {
	t.Helper()
	svc := service.NewStateService(store.NewStateStore("test-org"), zap.NewNop())
	h := NewBeliefHandler(svc)

	r := chi.NewRouter()
	r.Post("/beliefs", h.Create)
	r.Get("/beliefs", h.List)
	r.Get("/beliefs/{id}", h.GetByID)
	r.Patch("/beliefs/{id}", h.Patch)
	r.Post("/beliefs/{id}/archive", h.Archive)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateBelief(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"id":         "b1",
		"content":    "donors respond to impact stories",
		"confidence": 0.75,
		"tags":       []string{"fundraising"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Belief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "b1", created.ID)
	assert.Equal(t, 0.75, created.Confidence)
	assert.Equal(t, domain.BeliefActive, created.Status)
	assert.Equal(t, 1, created.Version)
}

func TestCreateBelief_GeneratesID(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"content":    "content",
		"confidence": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Belief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
}

func TestCreateBelief_MissingConfidence(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"content": "content without a confidence value",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBelief_ConfidenceOutOfRange(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"content":    "content",
		"confidence": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBelief_NotFound(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/beliefs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchBelief(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"id": "b1", "content": "content", "confidence": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/beliefs/b1", map[string]any{
		"confidence": 0.9,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Belief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 0.9, updated.Confidence)
	assert.Equal(t, 2, updated.Version)
	assert.NotNil(t, updated.LastReviewed)
}

func TestPatchBelief_UnknownFieldRejected(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"id": "b1", "content": "content", "confidence": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/beliefs/b1", map[string]any{
		"certainty": 0.9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchBelief_InvalidValueRejected(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"id": "b1", "content": "content", "confidence": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/beliefs/b1", map[string]any{
		"confidence": -0.1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveBelief(t *testing.T) {
	r := newBeliefRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
		"id": "b1", "content": "content", "confidence": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/beliefs/b1/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var archived domain.Belief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, domain.BeliefArchived, archived.Status)
}

func TestListBeliefs_StatusFilter(t *testing.T) {
	r := newBeliefRouter(t)

	for _, id := range []string{"b1", "b2"} {
		rec := doJSON(t, r, http.MethodPost, "/beliefs", map[string]any{
			"id": id, "content": "content", "confidence": 0.5,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, r, http.MethodPost, "/beliefs/b2/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/beliefs?status=active", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var beliefs []domain.Belief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beliefs))
	require.Len(t, beliefs, 1)
	assert.Equal(t, "b1", beliefs[0].ID)

	rec = doJSON(t, r, http.MethodGet, "/beliefs?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

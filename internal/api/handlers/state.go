package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/service"
)

// StateHandler exposes the whole-state surface: snapshots, revision
// history, coherence scoring, drift classification and reflection.
type StateHandler struct {
	svc        *service.StateService
	checker    *service.CoherenceChecker
	classifier *service.DriftClassifier
	reflection *service.ReflectionService
}

func NewStateHandler(
	svc *service.StateService,
	checker *service.CoherenceChecker,
	classifier *service.DriftClassifier,
	reflection *service.ReflectionService,
) *StateHandler {
	return &StateHandler{
		svc:        svc,
		checker:    checker,
		classifier: classifier,
		reflection: reflection,
	}
}

func (h *StateHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// CheckCoherence scores the current snapshot.
func (h *StateHandler) CheckCoherence(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build snapshot")
		return
	}

	writeJSON(w, http.StatusOK, h.checker.Check(snapshot))
}

type classifyDriftRequest struct {
	Before      service.CoherenceScore `json:"before"`
	After       service.CoherenceScore `json:"after"`
	ElapsedDays float64                `json:"elapsed_days"`
}

// ClassifyDrift compares two previously obtained coherence scores.
func (h *StateHandler) ClassifyDrift(w http.ResponseWriter, r *http.Request) {
	var req classifyDriftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.classifier.Classify(req.Before, req.After, req.ElapsedDays))
}

type classifyEventsRequest struct {
	Events []domain.DriftEvent `json:"events"`
}

// ClassifyDriftEvents runs the frequency-based classification over a
// list of historical drift events.
func (h *StateHandler) ClassifyDriftEvents(w http.ResponseWriter, r *http.Request) {
	var req classifyEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, e := range req.Events {
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, h.classifier.ClassifyFromEvents(req.Events))
}

// Reflect runs a full snapshot -> score -> classify cycle.
func (h *StateHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	result, err := h.reflection.Reflect(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reflection failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *StateHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reflection.History())
}

// GetRevisions returns the audit trail for one entity.
func (h *StateHandler) GetRevisions(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !domain.ValidEntityKind(kind) {
		writeError(w, http.StatusBadRequest, "kind must be belief, desire or intention")
		return
	}

	revisions, err := h.svc.RevisionHistory(r.Context(), domain.EntityKind(kind), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get revision history")
		return
	}
	if revisions == nil {
		revisions = []domain.Revision{}
	}

	writeJSON(w, http.StatusOK, revisions)
}

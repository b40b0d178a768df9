package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/service"
)

type IntentionHandler struct {
	svc *service.StateService
}

func NewIntentionHandler(svc *service.StateService) *IntentionHandler {
	return &IntentionHandler{svc: svc}
}

type createIntentionRequest struct {
	ID        string   `json:"id,omitempty"`
	Goal      string   `json:"goal"`
	Status    string   `json:"status,omitempty"`
	BeliefIDs []string `json:"belief_ids,omitempty"`
	DesireIDs []string `json:"desire_ids,omitempty"`
	Progress  float64  `json:"progress,omitempty"`
}

func (h *IntentionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIntentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Goal == "" {
		writeError(w, http.StatusBadRequest, "goal is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(domain.IntentionActive)
	}

	intention, err := domain.NewIntention(req.ID, req.Goal, domain.IntentionStatus(req.Status), req.BeliefIDs, req.DesireIDs, req.Progress)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.AddIntention(r.Context(), intention); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add intention")
		return
	}

	writeJSON(w, http.StatusCreated, intention)
}

func (h *IntentionHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.IntentionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if !domain.ValidIntentionStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		is := domain.IntentionStatus(s)
		status = &is
	}

	intentions, err := h.svc.ListIntentions(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list intentions")
		return
	}

	writeJSON(w, http.StatusOK, intentions)
}

func (h *IntentionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	intention, err := h.svc.GetIntention(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrIntentionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get intention")
		return
	}

	writeJSON(w, http.StatusOK, intention)
}

func (h *IntentionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch domain.IntentionPatch
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	intention, err := h.svc.UpdateIntention(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIntentionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update intention")
		}
		return
	}

	writeJSON(w, http.StatusOK, intention)
}

// Complete marks the intention completed; progress is forced to 1.0.
func (h *IntentionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	intention, err := h.svc.CompleteIntention(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrIntentionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to complete intention")
		return
	}

	writeJSON(w, http.StatusOK, intention)
}

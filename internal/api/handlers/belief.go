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

type BeliefHandler struct {
	svc *service.StateService
}

func NewBeliefHandler(svc *service.StateService) *BeliefHandler {
	return &BeliefHandler{svc: svc}
}

type createBeliefRequest struct {
	ID         string   `json:"id,omitempty"`
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence"`
	Status     string   `json:"status,omitempty"`
	Source     string   `json:"source,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
}

func (h *BeliefHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBeliefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Confidence == nil {
		writeError(w, http.StatusBadRequest, "confidence is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(domain.BeliefActive)
	}

	belief, err := domain.NewBelief(req.ID, req.Content, *req.Confidence, domain.BeliefStatus(req.Status), req.Source, req.Tags)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	belief.Evidence = req.Evidence

	if err := h.svc.AddBelief(r.Context(), belief); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add belief")
		return
	}

	writeJSON(w, http.StatusCreated, belief)
}

func (h *BeliefHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.BeliefStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if !domain.ValidBeliefStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		bs := domain.BeliefStatus(s)
		status = &bs
	}

	beliefs, err := h.svc.ListBeliefs(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list beliefs")
		return
	}

	writeJSON(w, http.StatusOK, beliefs)
}

func (h *BeliefHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	belief, err := h.svc.GetBelief(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrBeliefNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get belief")
		return
	}

	writeJSON(w, http.StatusOK, belief)
}

// Patch applies a partial update. Unknown fields in the body are
// rejected; the patch struct is the closed set of updatable fields.
func (h *BeliefHandler) Patch(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch domain.BeliefPatch
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	belief, err := h.svc.UpdateBelief(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBeliefNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update belief")
		}
		return
	}

	writeJSON(w, http.StatusOK, belief)
}

func (h *BeliefHandler) Archive(w http.ResponseWriter, r *http.Request) {
	belief, err := h.svc.ArchiveBelief(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrBeliefNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to archive belief")
		return
	}

	writeJSON(w, http.StatusOK, belief)
}

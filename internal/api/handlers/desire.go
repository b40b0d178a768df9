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

type DesireHandler struct {
	svc *service.StateService
}

func NewDesireHandler(svc *service.StateService) *DesireHandler {
	return &DesireHandler{svc: svc}
}

type createDesireRequest struct {
	ID          string   `json:"id,omitempty"`
	Content     string   `json:"content"`
	Priority    *float64 `json:"priority"`
	Status      string   `json:"status,omitempty"`
	RelatedTags []string `json:"related_tags,omitempty"`
	Measurable  bool     `json:"measurable,omitempty"`
	Metric      string   `json:"metric,omitempty"`
}

func (h *DesireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDesireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Priority == nil {
		writeError(w, http.StatusBadRequest, "priority is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(domain.DesireActive)
	}

	desire, err := domain.NewDesire(req.ID, req.Content, *req.Priority, domain.DesireStatus(req.Status), req.RelatedTags, req.Measurable, req.Metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.AddDesire(r.Context(), desire); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add desire")
		return
	}

	writeJSON(w, http.StatusCreated, desire)
}

func (h *DesireHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.DesireStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if !domain.ValidDesireStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		ds := domain.DesireStatus(s)
		status = &ds
	}

	desires, err := h.svc.ListDesires(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list desires")
		return
	}

	writeJSON(w, http.StatusOK, desires)
}

func (h *DesireHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	desire, err := h.svc.GetDesire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrDesireNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get desire")
		return
	}

	writeJSON(w, http.StatusOK, desire)
}

func (h *DesireHandler) Patch(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch domain.DesirePatch
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	desire, err := h.svc.UpdateDesire(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDesireNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update desire")
		}
		return
	}

	writeJSON(w, http.StatusOK, desire)
}

func (h *DesireHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	desire, err := h.svc.SuspendDesire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrDesireNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to suspend desire")
		return
	}

	writeJSON(w, http.StatusOK, desire)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satiscrm/crm-api/internal/infra/http/middleware"
	"github.com/satiscrm/crm-api/internal/usecase"
)

type DealHandler struct {
	transitions *usecase.StageTransitionValidator
}

func NewDealHandler(transitions *usecase.StageTransitionValidator) *DealHandler {
	return &DealHandler{transitions: transitions}
}

type MoveStageRequest struct {
	NewStageID string `json:"new_stage_id"`
	UserID     string `json:"user_id"`
}

type MoveStageResponse struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
}

func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	dealID := chi.URLParam(r, "id")

	var req MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if req.NewStageID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "new_stage_id is required")
		return
	}

	warnings, err := h.transitions.MoveDealStage(r.Context(), dealID, req.NewStageID, req.UserID)
	if err != nil {
		if usecase.IsDomainError(err) {
			middleware.RecordStageMoveRejected()
		}
		writeUseCaseError(w, err)
		return
	}

	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, MoveStageResponse{Success: true, Warnings: warnings})
}

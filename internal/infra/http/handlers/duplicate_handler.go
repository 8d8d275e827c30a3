package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/satiscrm/crm-api/internal/dedup"
	"github.com/satiscrm/crm-api/internal/infra/http/middleware"
)

type DuplicateHandler struct {
	detector *dedup.Detector
}

func NewDuplicateHandler(detector *dedup.Detector) *DuplicateHandler {
	return &DuplicateHandler{detector: detector}
}

type CheckDuplicatesRequest struct {
	Kind           dedup.Kind   `json:"kind"`
	OrganizationID string       `json:"organization_id"`
	Record         dedup.Record `json:"record"`
}

type CheckDuplicatesResponse struct {
	Matches []dedup.Match `json:"matches"`
}

func (h *DuplicateHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if req.OrganizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "organization_id is required")
		return
	}

	switch req.Kind {
	case dedup.KindLead, dedup.KindCustomer, dedup.KindContact:
	default:
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_KIND", "kind must be leads, customers or contacts")
		return
	}

	matches := h.detector.FindPotentialDuplicates(r.Context(), req.Kind, req.OrganizationID, req.Record)
	middleware.RecordDuplicateCheck(string(req.Kind), len(matches) > 0)

	writeJSON(w, http.StatusOK, CheckDuplicatesResponse{Matches: matches})
}

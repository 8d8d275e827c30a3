package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/satiscrm/crm-api/internal/entity"
	"github.com/satiscrm/crm-api/internal/security"
)

type ActivityHandler struct {
	activityRepo entity.ActivityRepositoryInterface
	validator    *security.Validator
}

func NewActivityHandler(activityRepo entity.ActivityRepositoryInterface) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
		validator:    security.NewDefaultValidator(),
	}
}

type CreateActivityRequest struct {
	OrganizationID string `json:"organization_id"`
	Subject        string `json:"subject"`
	ActivityType   string `json:"activity_type"`
	Priority       string `json:"priority,omitempty"`
	LeadID         string `json:"lead_id,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	DealID         string `json:"deal_id,omitempty"`
	ContactID      string `json:"contact_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if req.OrganizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "organization_id is required")
		return
	}

	subject := h.validator.ValidateAndSanitize(req.Subject, "Subject")
	if !subject.IsValid {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":   "VALIDATION_ERROR",
			"errors": subject.Errors,
		})
		return
	}

	activity := entity.NewActivity(req.OrganizationID, subject.SanitizedValue, req.ActivityType)
	activity.Priority = req.Priority
	activity.LeadID = req.LeadID
	activity.CustomerID = req.CustomerID
	activity.DealID = req.DealID
	activity.ContactID = req.ContactID
	activity.OwnerID = req.OwnerID

	if err := h.activityRepo.Create(r.Context(), activity); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to record activity")
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

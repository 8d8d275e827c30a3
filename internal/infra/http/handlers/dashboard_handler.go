package handlers

import (
	"net/http"

	"github.com/satiscrm/crm-api/internal/usecase"
)

type DashboardHandler struct {
	dashboardUC *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboardUC *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC}
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "organization_id is required")
		return
	}
	ownerID := r.URL.Query().Get("owner_id")

	stats, err := h.dashboardUC.Execute(r.Context(), organizationID, ownerID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

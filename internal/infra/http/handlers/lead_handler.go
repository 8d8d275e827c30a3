package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satiscrm/crm-api/internal/entity"
	"github.com/satiscrm/crm-api/internal/infra/http/middleware"
	"github.com/satiscrm/crm-api/internal/security"
	"github.com/satiscrm/crm-api/internal/usecase"
)

type LeadHandler struct {
	leadRepo    entity.LeadRepositoryInterface
	convertUC   *usecase.ConvertLeadUseCase
	validator   *security.Validator
	rateLimiter *security.RateLimiter
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface, convertUC *usecase.ConvertLeadUseCase) *LeadHandler {
	return &LeadHandler{
		leadRepo:    leadRepo,
		convertUC:   convertUC,
		validator:   security.NewDefaultValidator(),
		rateLimiter: security.NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type CaptureLeadRequest struct {
	OrganizationID string  `json:"organization_id"`
	CompanyName    string  `json:"company_name"`
	POCName        string  `json:"poc_name"`
	POCEmail       string  `json:"poc_email"`
	POCPhone       string  `json:"poc_phone,omitempty"`
	EstimatedValue float64 `json:"estimated_value,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool     `json:"success"`
	LeadID  string   `json:"lead_id,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if decision := h.rateLimiter.Allow(clientIP); !decision.Allowed {
		middleware.RecordRateLimited("lead_capture")
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if req.OrganizationID == "" {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "organization_id is required",
		})
		return
	}

	var fieldErrors []string
	company := h.validator.ValidateCompanyName(req.CompanyName)
	fieldErrors = append(fieldErrors, company.Errors...)

	name := h.validator.ValidateAndSanitize(req.POCName, "Contact Name")
	fieldErrors = append(fieldErrors, name.Errors...)

	email := h.validator.ValidateEmail(req.POCEmail)
	fieldErrors = append(fieldErrors, email.Errors...)

	phone := security.Result{SanitizedValue: ""}
	if req.POCPhone != "" {
		phone = h.validator.ValidatePhone(req.POCPhone)
		fieldErrors = append(fieldErrors, phone.Errors...)
	}

	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrors,
		})
		return
	}

	lead := entity.NewLead(req.OrganizationID, company.SanitizedValue, name.SanitizedValue)
	lead.POCEmail = email.SanitizedValue
	lead.POCPhone = phone.SanitizedValue
	lead.EstimatedValue = req.EstimatedValue

	if err := h.leadRepo.Upsert(ctx, lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  lead.ID,
	})
}

type ConvertLeadRequest struct {
	UserID string `json:"user_id"`
}

func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req ConvertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.convertUC.Execute(r.Context(), usecase.ConvertLeadInput{
		LeadID: leadID,
		UserID: req.UserID,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordConversion()
	writeJSON(w, http.StatusCreated, output)
}

// ValidateConversion is the advisory pre-flight for the convert button. It
// never mutates anything.
func (h *LeadHandler) ValidateConversion(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req ConvertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	result := h.convertUC.ValidateLeadForConversion(r.Context(), leadID, req.UserID)
	writeJSON(w, http.StatusOK, result)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop is the client.
		if idx := strings.IndexByte(xff, ','); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

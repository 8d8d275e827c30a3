package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/satiscrm/crm-api/internal/security"
)

// UploadHandler screens attachment metadata before the client sends any
// bytes to storage, so oversized or blocked files are refused up front.
type UploadHandler struct {
	validator *security.UploadValidator
}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{
		validator: security.NewUploadValidator(security.DefaultUploadConfig()),
	}
}

type ValidateUploadRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type ValidateUploadResponse struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

func (h *UploadHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if req.FileName == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "file_name is required")
		return
	}

	ok, errs := h.validator.ValidateFile(req.FileName, req.MimeType, req.Size)
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, ValidateUploadResponse{IsValid: ok, Errors: errs})
}

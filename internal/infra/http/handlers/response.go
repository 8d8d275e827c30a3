package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satiscrm/crm-api/internal/usecase"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUseCaseError maps the two use-case error families onto HTTP statuses.
// Domain refusals carry a caller-safe message; technical failures do not leak
// details.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusUnprocessableEntity
		switch de.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeValidation:
			status = http.StatusBadRequest
		case usecase.CodeDuplicateCustomer:
			status = http.StatusConflict
		case "RATE_LIMITED":
			status = http.StatusTooManyRequests
		case "AUTH_FAILED":
			status = http.StatusUnauthorized
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, "internal error")
		return
	}

	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/satiscrm/crm-api/internal/usecase"
)

type AuthHandler struct {
	authUC *usecase.AuthUseCase
}

func NewAuthHandler(authUC *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email and password are required")
		return
	}

	session, err := h.authUC.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email and password are required")
		return
	}

	session, err := h.authUC.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "MISSING_TOKEN", "authorization header is required")
		return
	}

	if err := h.authUC.SignOut(r.Context(), token); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if req.Email == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email is required")
		return
	}

	if err := h.authUC.ResetPassword(r.Context(), req.Email); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/service"
)

type AuthHandler struct {
	service service.StaffAuthService
}

func NewAuthHandler(svc service.StaffAuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidArgument("Invalid request body"))
		return
	}

	token, user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: *user})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeError(w, apperrors.Unauthorized("No token provided"))
		return
	}

	user, err := h.service.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*entities.UserResponse{"user": user})
}

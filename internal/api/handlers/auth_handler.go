package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shoplist/api/internal/api/types"
	"github.com/shoplist/api/internal/services"
)

type AuthHandler struct {
	auth     services.AuthService
	validate *validator.Validate
}

func NewAuthHandler(auth services.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{auth: auth, validate: v}
}

// Login exchanges a username and password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "username and password are required")
		return
	}

	tok, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.LoginResponse{Token: tok.Value, ExpiresAt: tok.ExpiresAt})
}

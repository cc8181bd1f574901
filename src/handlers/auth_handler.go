package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/security"
	"github.com/username/foxxdash/backend/src/utils"
)

// AuthHandler issues bearer tokens for the single admin account. When no
// admin password hash is configured, login is disabled and the middleware
// lets every request through.
type AuthHandler struct {
	authService       *security.AuthService
	adminUsername     string
	adminPasswordHash string
}

func NewAuthHandler(authService *security.AuthService, adminUsername, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

// Enabled reports whether admin authentication is configured.
func (h *AuthHandler) Enabled() bool {
	return h.adminPasswordHash != ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		utils.SendJSONError(w, "Authentication is not configured on this deployment", http.StatusNotFound)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username != h.adminUsername {
		logger.L.Warn("Login attempt with unknown username", "username", req.Username)
		utils.SendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := h.authService.CompareHashAndPassword(h.adminPasswordHash, req.Password); err != nil {
		logger.L.Warn("Login attempt with wrong password", "username", req.Username)
		utils.SendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(h.adminUsername)
	if err != nil {
		logger.L.Error("Failed to generate token", "error", err)
		utils.SendJSONError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Admin logged in", "username", req.Username)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(loginResponse{Token: token}); err != nil {
		logger.L.Error("Error encoding login response", "error", err)
	}
}

package handlers

import (
	"net/http"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// Cookie used by the admin SPA alongside the Authorization header.
const authCookieName = "admin_auth"

// AuthHandlers contains the admin authentication handlers.
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - admin authentication.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, account, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// 24h cookie matching the token lifetime.
	c.SetCookie(authCookieName, token, 24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{"id": account.ID, "email": account.Email},
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears the auth cookie.
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProfile handles GET /api/v1/auth/profile - returns the authenticated admin.
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	adminID := c.GetString("adminId")
	email := c.GetString("adminEmail")
	c.JSON(http.StatusOK, gin.H{"id": adminID, "email": email})
}

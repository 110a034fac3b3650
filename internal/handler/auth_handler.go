package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/auth"
	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/pkg/model"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService *auth.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds model.UserCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, token, err := h.authService.Login(creds)
	if err != nil {
		if err.Error() == "2fa_required" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":       "2FA code required",
				"require_2fa": true,
			})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"login":     user.Login,
			"role":      user.Role,
			"region_id": user.RegionID,
		},
	})
}

// GetProfile handles GET /api/user/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	user, err := h.authService.GetUserByID(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetupTwoFactor handles POST /api/2fa/setup
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	setupData, err := h.authService.SetupTwoFactor(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setupData)
}

// VerifyTwoFactor handles POST /api/2fa/verify
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req model.TwoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authService.VerifyAndEnableTwoFactor(actor.UserID, req.TOTPCode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication enabled"})
}

// DisableTwoFactor handles POST /api/2fa/disable
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if err := h.authService.DisableTwoFactor(actor.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication disabled"})
}

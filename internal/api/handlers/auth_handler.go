package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// ============================================
// Auth Handler
// ============================================

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// Register - Create a company together with its first admin
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.RegisterCompany(c.Request.Context(), service.RegisterCompanyInput{
		CompanyName: req.CompanyName,
		Website:     req.Website,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, err, "Failed to register company")
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result, "Company registered successfully"))
}

// Login - Exchange credentials for a token pair
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result, "Login successful"))
}

// Refresh - Rotate a refresh token
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result, "Token refreshed"))
}

// Logout - Revoke a refresh token
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

// Profile - Current user
// GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextRole     = "role"
	ContextEmail    = "email"
)

// TokenValidator resolves a bearer token. service.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// AuthMiddleware validates JWT tokens and sets user and tenant context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromGin(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn().Str("path", c.Request.URL.Path).Msg("❌ Missing Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn().Str("path", c.Request.URL.Path).Msg("❌ Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("❌ Invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextEmail, claims.Email)
		c.Request = c.Request.WithContext(logger.WithUser(c.Request.Context(), claims.UserID, claims.TenantID))

		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not listed
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, GetRole(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func getString(c *gin.Context, key string) string {
	v, exists := c.Get(key)
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) string {
	return getString(c, ContextUserID)
}

// GetTenantID extracts the caller's company ID from gin context
func GetTenantID(c *gin.Context) string {
	return getString(c, ContextTenantID)
}

func GetRole(c *gin.Context) string {
	return getString(c, ContextRole)
}

// RequireUserID writes a 401 and reports false when no user is in context
func RequireUserID(c *gin.Context) (string, bool) {
	userID := GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}

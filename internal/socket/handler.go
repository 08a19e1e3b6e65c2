// internal/socket/handler.go
package socket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// TokenValidator resolves an access token to its claims.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// Handler handles WebSocket connections
type Handler struct {
	Hub       *Hub
	Validator TokenValidator
	upgrader  websocket.Upgrader
}

// NewHandler creates a WebSocket handler. An empty allowedOrigin accepts any
// origin.
func NewHandler(hub *Hub, validator TokenValidator, allowedOrigin string) *Handler {
	return &Handler{
		Hub:       hub,
		Validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// HandleWebSocket upgrades an authenticated request.
// GET /ws?token=...
// The token comes from the query string because browsers cannot set headers
// on a WebSocket handshake; a Bearer header is accepted as well.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	log := logger.FromGin(c)

	tokenString := c.Query("token")
	if tokenString == "" {
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	claims, err := h.Validator.ValidateToken(tokenString)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := NewClient(h.Hub, claims.UserID, claims.TenantID, conn)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// internal/socket/client.go
package socket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/projecthub/project-hub-backend/internal/logger"
)

// WebSocket connection constants
const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize int64 = 4096
)

// ClientMessage represents an incoming message from a client
type ClientMessage struct {
	Action  string                 `json:"action"`
	Room    string                 `json:"room,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

func NewClient(hub *Hub, userID, tenantID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		TenantID: tenantID,
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan []byte, 256),
		Rooms:    make(map[string]bool),
		lastPing: time.Now(),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Global().Warn().Err(err).Str("user_id", c.UserID).Msg("WebSocket read error")
			}
			return
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce queued messages, newline separated
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.reply(MessageError, map[string]interface{}{"error": "malformed message"})
		return
	}

	switch msg.Action {
	case "join":
		if msg.Room == "" {
			return
		}
		if !c.Hub.JoinRoom(c, msg.Room) {
			c.reply(MessageError, map[string]interface{}{"error": "room not allowed", "room": msg.Room})
			return
		}
		c.reply(MessageAck, map[string]interface{}{"action": "joined", "room": msg.Room})

	case "leave":
		if msg.Room != "" {
			c.Hub.LeaveRoom(c, msg.Room)
			c.reply(MessageAck, map[string]interface{}{"action": "left", "room": msg.Room})
		}

	case "typing":
		if msg.Room != "" && canJoin(c, msg.Room) {
			c.Hub.SendToRoom(msg.Room, MessageUserTyping, map[string]interface{}{
				"userId": c.UserID,
				"room":   msg.Room,
			}, c.UserID)
		}

	case "ping":
		c.touch()
		c.reply(MessagePong, map[string]interface{}{"time": time.Now().Unix()})

	case "pong":
		c.touch()

	default:
		logger.Global().Debug().Str("action", msg.Action).Str("user_id", c.UserID).Msg("Unknown websocket action")
	}
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastPing = time.Now()
	c.mu.Unlock()
}

func (c *Client) reply(msgType MessageType, payload map[string]interface{}) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	if !c.trySend(data) {
		logger.Global().Debug().Str("user_id", c.UserID).Str("type", string(msgType)).Msg("Reply dropped")
	}
}

// internal/socket/hub.go
package socket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/projecthub/project-hub-backend/internal/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Estimation messages
	MessageEstimationCreated MessageType = "estimation_created"
	MessageEstimationDeleted MessageType = "estimation_deleted"

	// Project messages
	MessageProjectCreated MessageType = "project_created"
	MessageProjectUpdated MessageType = "project_updated"
	MessageProjectDeleted MessageType = "project_deleted"

	// Task messages
	MessageTaskCreated       MessageType = "task_created"
	MessageTaskUpdated       MessageType = "task_updated"
	MessageTaskDeleted       MessageType = "task_deleted"
	MessageTaskStatusChanged MessageType = "task_status_changed"
	MessageTaskAssigned      MessageType = "task_assigned"

	// Documentation messages
	MessageDocumentationPublished MessageType = "documentation_published"

	// User presence
	MessageUserOnline  MessageType = "user_online"
	MessageUserOffline MessageType = "user_offline"
	MessageUserTyping  MessageType = "user_typing"

	// System messages
	MessageSystem MessageType = "system"
	MessagePing   MessageType = "ping"
	MessagePong   MessageType = "pong"
	MessageAck    MessageType = "ack"
	MessageError  MessageType = "error"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID       string
	UserID   string
	TenantID string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan []byte
	Rooms    map[string]bool
	mu       sync.Mutex
	closed   bool
	lastPing time.Time
}

// trySend queues data without blocking. It reports false when the buffer is
// full or the client is gone.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Room names. Every room a client can reach is scoped by its tenant.
func UserRoom(userID string) string { return "user:" + userID }

func TenantRoom(tenantID string) string { return "tenant:" + tenantID }

func ProjectRoom(tenantID, projectID string) string {
	return TenantRoom(tenantID) + ":project:" + projectID
}

// canJoin reports whether the client may subscribe to room.
func canJoin(c *Client, room string) bool {
	tenant := TenantRoom(c.TenantID)
	return room == UserRoom(c.UserID) || room == tenant || strings.HasPrefix(room, tenant+":")
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients     map[*Client]bool
	userClients map[string]map[*Client]bool
	roomClients map[string]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	broadcast     chan []byte
	roomBroadcast chan *RoomMessage
	directMessage chan *DirectMessage

	done chan struct{}
	mu   sync.RWMutex
}

// RoomMessage represents a message to be sent to a specific room
type RoomMessage struct {
	Room    string
	Message []byte
	Exclude string // User ID to exclude from broadcast
}

// DirectMessage represents a message to be sent to a specific user
type DirectMessage struct {
	UserID  string
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		userClients:   make(map[string]map[*Client]bool),
		roomClients:   make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 256),
		roomBroadcast: make(chan *RoomMessage, 256),
		directMessage: make(chan *DirectMessage, 256),
		done:          make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled, after
// disconnecting every client.
func (h *Hub) Run(ctx context.Context) {
	log := logger.Global()
	log.Info().Msg("🔌 WebSocket hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			log.Info().Msg("🔌 WebSocket hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToAll(message)

		case rm := <-h.roomBroadcast:
			h.broadcastToRoom(rm)

		case dm := <-h.directMessage:
			h.sendToUser(dm)

		case <-pingTicker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	close(h.done)
	for client := range h.clients {
		client.close()
	}
	h.clients = make(map[*Client]bool)
	h.userClients = make(map[string]map[*Client]bool)
	h.roomClients = make(map[string]map[*Client]bool)
}

// Register hands a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	if h.userClients[client.UserID] == nil {
		h.userClients[client.UserID] = make(map[*Client]bool)
	}
	firstConnection := len(h.userClients[client.UserID]) == 0
	h.userClients[client.UserID][client] = true

	h.joinLocked(client, UserRoom(client.UserID))
	h.joinLocked(client, TenantRoom(client.TenantID))
	total := len(h.clients)
	h.mu.Unlock()

	logger.Global().Info().
		Str("user_id", client.UserID).
		Str("tenant_id", client.TenantID).
		Str("client_id", client.ID).
		Int("total_clients", total).
		Msg("✅ Client registered")

	if firstConnection {
		go h.BroadcastUserStatus(client.TenantID, client.UserID, true)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)

	wentOffline := false
	if clients, ok := h.userClients[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.UserID)
			wentOffline = true
		}
	}

	client.mu.Lock()
	rooms := make([]string, 0, len(client.Rooms))
	for room := range client.Rooms {
		rooms = append(rooms, room)
	}
	client.mu.Unlock()
	for _, room := range rooms {
		if clients, ok := h.roomClients[room]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, room)
			}
		}
	}

	client.close()
	total := len(h.clients)
	h.mu.Unlock()

	logger.Global().Info().
		Str("user_id", client.UserID).
		Str("client_id", client.ID).
		Int("total_clients", total).
		Msg("❌ Client disconnected")

	if wentOffline {
		go h.BroadcastUserStatus(client.TenantID, client.UserID, false)
	}
}

func (h *Hub) deliver(clients map[*Client]bool, data []byte, exclude string) int {
	sent := 0
	for client := range clients {
		if exclude != "" && client.UserID == exclude {
			continue
		}
		if client.trySend(data) {
			sent++
			continue
		}
		go h.leave(client)
	}
	return sent
}

func (h *Hub) broadcastToAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.clients, message, "")
}

func (h *Hub) broadcastToRoom(rm *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.roomClients[rm.Room]
	if !ok {
		return
	}
	sent := h.deliver(clients, rm.Message, rm.Exclude)
	logger.Global().Debug().Str("room", rm.Room).Int("sent", sent).Msg("Broadcast to room")
}

func (h *Hub) sendToUser(dm *DirectMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userClients[dm.UserID]
	if !ok {
		return
	}
	sent := h.deliver(clients, dm.Message, "")
	logger.Global().Debug().Str("user_id", dm.UserID).Int("sent", sent).Msg("Direct message")
}

func (h *Hub) pingClients() {
	data, _ := json.Marshal(Message{Type: MessagePing, Timestamp: time.Now()})
	h.broadcastToAll(data)
}

// ============================================
// Public Methods for Room Management
// ============================================

// JoinRoom adds a client to a room the client's tenant owns.
func (h *Hub) JoinRoom(client *Client, room string) bool {
	if !canJoin(client, room) {
		logger.Global().Warn().
			Str("user_id", client.UserID).
			Str("room", room).
			Msg("⛔ Room join rejected")
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinLocked(client, room)
	return true
}

func (h *Hub) joinLocked(client *Client, room string) {
	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()

	if h.roomClients[room] == nil {
		h.roomClients[room] = make(map[*Client]bool)
	}
	h.roomClients[room][client] = true
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	delete(client.Rooms, room)
	client.mu.Unlock()

	if clients, ok := h.roomClients[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.roomClients, room)
		}
	}
}

// ============================================
// Public Methods for Sending Messages
// ============================================

func encode(msgType MessageType, payload map[string]interface{}) ([]byte, bool) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		logger.Global().Error().Err(err).Str("type", string(msgType)).Msg("Failed to marshal message")
		return nil, false
	}
	return data, true
}

// SendToUser sends a message to every connection of a user
func (h *Hub) SendToUser(userID string, msgType MessageType, payload map[string]interface{}) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	select {
	case h.directMessage <- &DirectMessage{UserID: userID, Message: data}:
	case <-h.done:
	}
}

// SendToRoom broadcasts a message to all clients in a room
func (h *Hub) SendToRoom(room string, msgType MessageType, payload map[string]interface{}, excludeUserID string) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	select {
	case h.roomBroadcast <- &RoomMessage{Room: room, Message: data, Exclude: excludeUserID}:
	case <-h.done:
	}
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(msgType MessageType, payload map[string]interface{}) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// BroadcastUserStatus tells the rest of the tenant that a user came online
// or went offline.
func (h *Hub) BroadcastUserStatus(tenantID, userID string, online bool) {
	msgType := MessageUserOffline
	if online {
		msgType = MessageUserOnline
	}
	h.SendToRoom(TenantRoom(tenantID), msgType, map[string]interface{}{
		"userId": userID,
		"online": online,
	}, userID)
}

// ============================================
// Query Methods
// ============================================

// GetOnlineUsers returns the connected users of a tenant
func (h *Hub) GetOnlineUsers(tenantID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := []string{}
	for userID, clients := range h.userClients {
		for c := range clients {
			if c.TenantID == tenantID {
				users = append(users, userID)
				break
			}
		}
	}
	return users
}

// IsUserOnline checks if a user is currently connected
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.userClients[userID]
	return ok
}

// GetRoomClients returns the number of clients in a room
func (h *Hub) GetRoomClients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.roomClients[room])
}

// GetConnectedClientsCount returns total connected clients
func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

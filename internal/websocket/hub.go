package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	TypePing    EventType = "ping"
	TypePong    EventType = "pong"
	TypeError   EventType = "error"
	TypeMessage EventType = "message"

	TypeUserOnline  EventType = "user_online"
	TypeUserOffline EventType = "user_offline"
)

// Envelope is the frame exchanged with clients in both directions.
type Envelope struct {
	Type       EventType       `json:"type"`
	ChatRoomID uint64          `json:"chatRoomId,omitempty"`
	UserID     uint64          `json:"userId,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Hub tracks live connections per user. One user may hold several connections.
type Hub struct {
	clients     map[uuid.UUID]*Client
	userClients map[uint64]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uint64]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop closes every connection and ends Run. Send channels stay open, since read pumps
// may still be replying on them; those goroutines end once their connection is closed.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
	h.userClients = make(map[uint64]map[uuid.UUID]*Client)
}

// Done is closed once Stop has been called.
func (h *Hub) Done() <-chan struct{} {
	return h.ctx.Done()
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	first := false
	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
		first = true
	}
	h.userClients[client.UserID][client.ID] = client

	slog.Debug("websocket client registered", "client_id", client.ID, "user_id", client.UserID)

	if first {
		h.broadcastUnsafe(Envelope{Type: TypeUserOnline, UserID: client.UserID, Timestamp: time.Now()})
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	delete(h.clients, client.ID)
	close(client.Send)

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
			h.broadcastUnsafe(Envelope{Type: TypeUserOffline, UserID: client.UserID, Timestamp: time.Now()})
		}
	}

	slog.Debug("websocket client unregistered", "client_id", client.ID, "user_id", client.UserID)
}

// NotifyUsers pushes one event to every connection of the listed users. Offline users are skipped.
func (h *Hub) NotifyUsers(userIDs []uint64, eventType string, payload any) {
	env := Envelope{Type: EventType(eventType), Timestamp: time.Now()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Error("failed to marshal websocket payload", "event", eventType, "error", err)
			return
		}
		env.Data = data
	}

	frame, err := json.Marshal(env)
	if err != nil {
		slog.Error("failed to marshal websocket envelope", "event", eventType, "error", err)
		return
	}

	seen := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		h.SendToUser(id, frame)
	}
}

// SendToUser queues a raw frame on every connection of userID.
func (h *Hub) SendToUser(userID uint64, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- frame:
		default:
			slog.Warn("websocket send queue full", "client_id", client.ID, "user_id", userID)
		}
	}
}

func (h *Hub) broadcastUnsafe(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		select {
		case client.Send <- frame:
		default:
		}
	}
}

// IsOnline reports whether userID has at least one live connection.
func (h *Hub) IsOnline(userID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}

func (h *Hub) OnlineUsers() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint64, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taakra-backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is the envelope for every message on the real-time channel
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event names on the real-time channel
const (
	EventAuthenticate   = "authenticate"
	EventAuthenticated  = "authenticated"
	EventError          = "error"
	EventSendMessage    = "sendMessage"
	EventMessageSent    = "messageSent"
	EventReceive        = "receiveMessage"
	EventTyping         = "typing"
	EventStopTyping     = "stopTyping"
	EventUserTyping     = "userTyping"
	EventUserStopTyping = "userStopTyping"
)

// ErrorPayload is the error event body. Kind is machine-readable,
// Message is for humans.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TypingPayload notifies a recipient that a counterpart is typing
type TypingPayload struct {
	UserID string `json:"user_id"`
}

// wsConn is the subset of *websocket.Conn the hub needs; tests provide
// fakes. The hub only writes, it never manages connection lifecycle.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
}

// Session is a live authenticated connection. The hub stores it for
// lookup only and never manages the connection's lifecycle; the reader
// goroutine that registered it keeps its own reference for echoes, which
// stays valid even after a newer session overwrites the presence entry.
type Session struct {
	connID string
	userID string
	conn   wsConn
	mu     sync.Mutex
}

// ID returns the connection identifier used for guarded eviction
func (c *Session) ID() string {
	return c.connID
}

// UserID returns the authenticated user behind the connection
func (c *Session) UserID() string {
	return c.userID
}

// Send marshals an event envelope and writes it to the connection.
// Serialized per session so concurrent routing never interleaves frames.
func (c *Session) Send(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	envelope, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, envelope); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	return nil
}

type hubUserStore interface {
	GetSummary(ctx context.Context, id string) (*models.UserSummary, error)
}

type hubChatStore interface {
	Create(ctx context.Context, senderID, receiverID, text string) (*models.ChatMessage, error)
}

// Hub tracks which user is reachable on which live connection and routes
// persisted messages and typing signals to online recipients. The
// presence table is the only shared mutable state; at most one
// connection per user is tracked, last-connected-wins.
type Hub struct {
	mu       sync.RWMutex
	presence map[string]*Session

	users hubUserStore
	chats hubChatStore
}

// NewHub creates a new presence and messaging hub
func NewHub(users hubUserStore, chats hubChatStore) *Hub {
	return &Hub{
		presence: make(map[string]*Session),
		users:    users,
		chats:    chats,
	}
}

// Register records conn as the live connection for userID. A second
// login silently overwrites the entry; the older connection stays open
// but no longer receives routed messages.
func (h *Hub) Register(userID string, conn wsConn) *Session {
	session := &Session{connID: uuid.New().String(), userID: userID, conn: conn}

	h.mu.Lock()
	h.presence[userID] = session
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Str("conn_id", session.connID).Msg("Connection registered")
	return session
}

// Unregister removes the presence entry for userID, but only if it still
// points at connID. A stale connection's disconnect must not evict a
// newer session.
func (h *Hub) Unregister(userID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.presence[userID]; ok && c.connID == connID {
		delete(h.presence, userID)
		log.Info().Str("user_id", userID).Str("conn_id", connID).Msg("Connection unregistered")
	}
}

// lookup returns the live session for a user, if any
func (h *Hub) lookup(userID string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.presence[userID]
	return c, ok
}

// IsOnline reports whether a user has a live presence entry
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.presence[userID]
	return ok
}

// SendMessage validates the receiver, persists the message and delivers
// it to the receiver's live connection if one exists. The persisted
// message is returned so the caller can echo it to the sender; delivery
// to the receiver is best-effort and at-most-once.
func (h *Hub) SendMessage(ctx context.Context, senderID, receiverID, text string) (*models.ChatMessage, error) {
	if _, err := h.users.GetSummary(ctx, receiverID); err != nil {
		return nil, err
	}

	msg, err := h.chats.Create(ctx, senderID, receiverID, text)
	if err != nil {
		return nil, err
	}

	if c, ok := h.lookup(receiverID); ok {
		if err := c.Send(EventReceive, msg); err != nil {
			log.Error().Err(err).Str("receiver_id", receiverID).Msg("Failed to deliver message")
		}
	}

	log.Info().Str("sender_id", senderID).Str("receiver_id", receiverID).Msg("Message sent")
	return msg, nil
}

// NotifyTyping forwards an ephemeral typing signal to the receiver if
// online. Never persisted, never acknowledged, silently dropped when the
// receiver is offline.
func (h *Hub) NotifyTyping(senderID, receiverID string, stopped bool) {
	c, ok := h.lookup(receiverID)
	if !ok {
		return
	}

	event := EventUserTyping
	if stopped {
		event = EventUserStopTyping
	}
	if err := c.Send(event, TypingPayload{UserID: senderID}); err != nil {
		log.Error().Err(err).Str("receiver_id", receiverID).Msg("Failed to deliver typing signal")
	}
}

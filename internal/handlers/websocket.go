package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taakra-backend/internal/repository"
	"taakra-backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles the real-time chat channel. Each connection
// moves through Unauthenticated -> Authenticated -> Closed; only the
// authenticate event is accepted while Unauthenticated.
type WebSocketHandler struct {
	hub          *services.Hub
	authService  *services.AuthService
	authDeadline time.Duration
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *services.Hub, authService *services.AuthService, authDeadline time.Duration) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		authService:  authService,
		authDeadline: authDeadline,
	}
}

type authenticatePayload struct {
	Token string `json:"token"`
}

type authenticatedPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type sendMessagePayload struct {
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

type typingPayload struct {
	ReceiverID string `json:"receiver_id"`
}

// HandleWebSocket handles GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	// Connections that never authenticate are cut off at the deadline.
	conn.SetReadDeadline(time.Now().Add(h.authDeadline))

	ctx := r.Context()
	var session *services.Session

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("WebSocket read error")
			}
			break
		}

		var event services.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			h.sendError(conn, session, "validation", "Invalid message format")
			continue
		}

		if session == nil {
			if event.Event != services.EventAuthenticate {
				h.sendError(conn, session, "unauthenticated", "Not authenticated")
				continue
			}
			session = h.authenticate(ctx, conn, event.Data)
			if session == nil {
				// Terminal: invalid token or unknown user.
				return
			}
			conn.SetReadDeadline(time.Time{})
			defer h.hub.Unregister(session.UserID(), session.ID())
			continue
		}

		h.handleEvent(ctx, session, event)
	}
}

// authenticate resolves the access token to a user and registers the
// connection. Returns nil after emitting an error if the connection must
// be terminated.
func (h *WebSocketHandler) authenticate(ctx context.Context, conn *websocket.Conn, data json.RawMessage) *services.Session {
	var payload authenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		h.sendError(conn, nil, "validation", "Token is required")
		return nil
	}

	claims, err := h.authService.VerifyAccessToken(payload.Token)
	if err != nil {
		h.sendError(conn, nil, "unauthenticated", "Invalid token")
		return nil
	}

	user, err := h.authService.GetUser(ctx, claims.UserID)
	if err != nil {
		h.sendError(conn, nil, "not_found", "User not found")
		return nil
	}

	session := h.hub.Register(user.ID, conn)
	if err := session.Send(services.EventAuthenticated, authenticatedPayload{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to confirm authentication")
	}

	log.Info().Str("user_id", user.ID).Str("name", user.Name).Msg("WebSocket user authenticated")
	return session
}

func (h *WebSocketHandler) handleEvent(ctx context.Context, session *services.Session, event services.Event) {
	switch event.Event {
	case services.EventAuthenticate:
		// Already authenticated, nothing to do.
	case services.EventSendMessage:
		h.handleSendMessage(ctx, session, event.Data)
	case services.EventTyping, services.EventStopTyping:
		var payload typingPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ReceiverID == "" {
			return
		}
		h.hub.NotifyTyping(session.UserID(), payload.ReceiverID, event.Event == services.EventStopTyping)
	default:
		h.sendError(nil, session, "validation", "Unknown event")
	}
}

func (h *WebSocketHandler) handleSendMessage(ctx context.Context, session *services.Session, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ReceiverID == "" || payload.Message == "" {
		h.sendError(nil, session, "validation", "Receiver and message are required")
		return
	}
	if _, err := uuid.Parse(payload.ReceiverID); err != nil {
		h.sendError(nil, session, "validation", "Invalid receiver id")
		return
	}

	msg, err := h.hub.SendMessage(ctx, session.UserID(), payload.ReceiverID, payload.Message)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.sendError(nil, session, "not_found", "Receiver not found")
			return
		}
		log.Error().Err(err).Str("user_id", session.UserID()).Msg("Failed to send message")
		h.sendError(nil, session, "internal", "Failed to send message")
		return
	}

	if err := session.Send(services.EventMessageSent, msg); err != nil {
		log.Error().Err(err).Str("user_id", session.UserID()).Msg("Failed to echo message")
	}
}

// sendError emits an error event. Before authentication there is no
// session and the reader goroutine is the only writer, so writing to the
// raw connection is safe; afterwards all writes go through the session.
func (h *WebSocketHandler) sendError(conn *websocket.Conn, session *services.Session, kind, message string) {
	payload := services.ErrorPayload{Kind: kind, Message: message}

	if session != nil {
		if err := session.Send(services.EventError, payload); err != nil {
			log.Debug().Err(err).Msg("Failed to send error event")
		}
		return
	}

	data, _ := json.Marshal(payload)
	envelope, _ := json.Marshal(services.Event{Event: services.EventError, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, envelope); err != nil {
		log.Debug().Err(err).Msg("Failed to send error event")
	}
}

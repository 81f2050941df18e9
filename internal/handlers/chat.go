package handlers

import (
	"net/http"

	"taakra-backend/internal/middleware"
	"taakra-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ChatHandler handles chat read-path HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// History handles GET /api/chat/{userId}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	otherID := chi.URLParam(r, "userId")
	if !validateID(w, otherID) {
		return
	}

	claims := middleware.GetClaims(r.Context())

	messages, err := h.chatService.History(r.Context(), claims.UserID, otherID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(messages), messages)
}

// Conversations handles GET /api/chat/conversations
func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	conversations, err := h.chatService.Conversations(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(conversations), conversations)
}

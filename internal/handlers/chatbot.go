package handlers

import (
	"net/http"
	"strings"

	"taakra-backend/internal/services"
)

// ChatbotHandler handles chatbot HTTP requests
type ChatbotHandler struct {
	chatbotService *services.ChatbotService
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbotService *services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

type chatbotRequest struct {
	Message string `json:"message"`
}

// Respond handles POST /api/chatbot
func (h *ChatbotHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req chatbotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, "Message is required", http.StatusBadRequest)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"message": h.chatbotService.Respond(message),
	})
}

package services

import (
	"context"

	"taakra-backend/internal/models"
)

type chatHistoryStore interface {
	History(ctx context.Context, userA, userB string) ([]models.ChatMessage, error)
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

// ChatService is the read path over persisted chat messages. It plays no
// part in the hub's runtime state.
type ChatService struct {
	chats chatHistoryStore
	users hubUserStore
}

// NewChatService creates a new chat service
func NewChatService(chats chatHistoryStore, users hubUserStore) *ChatService {
	return &ChatService{chats: chats, users: users}
}

// History returns the conversation between two users, ascending by
// timestamp, capped at the most recent 100 messages
func (s *ChatService) History(ctx context.Context, currentUserID, otherUserID string) ([]models.ChatMessage, error) {
	if _, err := s.users.GetSummary(ctx, otherUserID); err != nil {
		return nil, err
	}
	return s.chats.History(ctx, currentUserID, otherUserID)
}

// Conversations returns one entry per counterpart the user has chatted
// with, each carrying the most recent message, sorted by recency
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.chats.Conversations(ctx, userID)
}

package services

import (
	"context"
	"testing"

	"taakra-backend/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeHistoryStore struct {
	history       []models.ChatMessage
	conversations []models.Conversation
	lastPair      [2]string
}

func (s *fakeHistoryStore) History(_ context.Context, userA, userB string) ([]models.ChatMessage, error) {
	s.lastPair = [2]string{userA, userB}
	return s.history, nil
}

func (s *fakeHistoryStore) Conversations(_ context.Context, _ string) ([]models.Conversation, error) {
	return s.conversations, nil
}

func TestChatHistoryValidatesCounterpart(t *testing.T) {
	users := &fakeUserStore{users: map[string]*models.UserSummary{
		"alice": {ID: "alice"},
		"bob":   {ID: "bob"},
	}}
	store := &fakeHistoryStore{history: []models.ChatMessage{{ID: "m1"}}}
	svc := NewChatService(store, users)

	msgs, err := svc.History(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, [2]string{"alice", "bob"}, store.lastPair)

	_, err = svc.History(context.Background(), "alice", "ghost")
	require.Error(t, err)
}

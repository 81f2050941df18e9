package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"taakra-backend/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *fakeConn) events(t *testing.T) []Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, 0, len(c.frames))
	for _, frame := range c.frames {
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		out = append(out, ev)
	}
	return out
}

type fakeUserStore struct {
	users map[string]*models.UserSummary
}

func (s *fakeUserStore) GetSummary(_ context.Context, id string) (*models.UserSummary, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errUserMissing
	}
	return u, nil
}

var errUserMissing = errMissing("user not found")

type errMissing string

func (e errMissing) Error() string { return string(e) }

type fakeChatStore struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
}

func (s *fakeChatStore) Create(_ context.Context, senderID, receiverID, text string) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := &models.ChatMessage{
		ID:         "msg-1",
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
		Timestamp:  time.Now(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func newTestHub(userIDs ...string) (*Hub, *fakeChatStore) {
	users := &fakeUserStore{users: make(map[string]*models.UserSummary)}
	for _, id := range userIDs {
		users.users[id] = &models.UserSummary{ID: id, Name: "u-" + id}
	}
	chats := &fakeChatStore{}
	return NewHub(users, chats), chats
}

func TestHubRegisterTracksPresence(t *testing.T) {
	hub, _ := newTestHub("alice")

	require.False(t, hub.IsOnline("alice"))

	session := hub.Register("alice", &fakeConn{})
	require.True(t, hub.IsOnline("alice"))
	require.Equal(t, "alice", session.UserID())
	require.NotEmpty(t, session.ID())
}

func TestHubSecondLoginOverwrites(t *testing.T) {
	hub, _ := newTestHub("alice", "bob")

	old := &fakeConn{}
	fresh := &fakeConn{}
	first := hub.Register("alice", old)
	second := hub.Register("alice", fresh)
	require.NotEqual(t, first.ID(), second.ID())

	// Routed traffic must reach only the latest connection.
	hub.Register("bob", &fakeConn{})
	_, err := hub.SendMessage(context.Background(), "bob", "alice", "hi")
	require.NoError(t, err)

	require.Empty(t, old.events(t))
	events := fresh.events(t)
	require.Len(t, events, 1)
	require.Equal(t, EventReceive, events[0].Event)
}

func TestHubUnregisterGuardsAgainstStaleEviction(t *testing.T) {
	hub, _ := newTestHub("alice")

	first := hub.Register("alice", &fakeConn{})
	second := hub.Register("alice", &fakeConn{})

	// The stale connection's disconnect must not evict the newer one.
	hub.Unregister("alice", first.ID())
	require.True(t, hub.IsOnline("alice"))

	hub.Unregister("alice", second.ID())
	require.False(t, hub.IsOnline("alice"))
}

func TestHubSendMessagePersistsAndDelivers(t *testing.T) {
	hub, chats := newTestHub("alice", "bob")

	receiver := &fakeConn{}
	hub.Register("bob", receiver)

	msg, err := hub.SendMessage(context.Background(), "alice", "bob", "hello")
	require.NoError(t, err)
	require.Equal(t, "alice", msg.SenderID)
	require.Equal(t, "bob", msg.ReceiverID)
	require.Equal(t, "hello", msg.Message)

	require.Len(t, chats.messages, 1)

	events := receiver.events(t)
	require.Len(t, events, 1)
	require.Equal(t, EventReceive, events[0].Event)

	var delivered models.ChatMessage
	require.NoError(t, json.Unmarshal(events[0].Data, &delivered))
	require.Equal(t, "hello", delivered.Message)
}

func TestHubSendMessageOfflineReceiverStillPersists(t *testing.T) {
	hub, chats := newTestHub("alice", "bob")

	msg, err := hub.SendMessage(context.Background(), "alice", "bob", "hello")
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Len(t, chats.messages, 1)
}

func TestHubSendMessageUnknownReceiver(t *testing.T) {
	hub, chats := newTestHub("alice")

	_, err := hub.SendMessage(context.Background(), "alice", "ghost", "hello")
	require.Error(t, err)
	require.Empty(t, chats.messages)
}

func TestHubNotifyTyping(t *testing.T) {
	hub, _ := newTestHub("alice", "bob")

	receiver := &fakeConn{}
	hub.Register("bob", receiver)

	hub.NotifyTyping("alice", "bob", false)
	hub.NotifyTyping("alice", "bob", true)

	events := receiver.events(t)
	require.Len(t, events, 2)
	require.Equal(t, EventUserTyping, events[0].Event)
	require.Equal(t, EventUserStopTyping, events[1].Event)

	var payload TypingPayload
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	require.Equal(t, "alice", payload.UserID)
}

func TestHubNotifyTypingOfflineIsSilent(t *testing.T) {
	hub, _ := newTestHub("alice", "bob")

	// Must not panic or error when the receiver has no live connection.
	hub.NotifyTyping("alice", "bob", false)
}

func TestHubConcurrentRegisterUnregister(t *testing.T) {
	hub, _ := newTestHub("alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := hub.Register("alice", &fakeConn{})
			hub.Unregister("alice", s.ID())
		}()
	}
	wg.Wait()
}

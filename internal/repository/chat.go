package repository

import (
	"context"
	"errors"
	"fmt"

	"taakra-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chat messages
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

const historyLimit = 100

// Create persists a message and returns it with sender and receiver
// summaries populated
func (r *ChatRepository) Create(ctx context.Context, senderID, receiverID, text string) (*models.ChatMessage, error) {
	query := `
		WITH m AS (
			INSERT INTO chat_messages (id, sender_id, receiver_id, message)
			VALUES ($1, $2, $3, $4)
			RETURNING id, sender_id, receiver_id, message, sent_at, created_at
		)
		SELECT m.id, m.sender_id, m.receiver_id, m.message, m.sent_at, m.created_at,
		       s.name, s.email, s.role,
		       rc.name, rc.email, rc.role
		FROM m
		JOIN users s ON s.id = m.sender_id
		JOIN users rc ON rc.id = m.receiver_id
	`
	var (
		msg      models.ChatMessage
		sender   models.UserSummary
		receiver models.UserSummary
	)
	err := r.db.QueryRow(ctx, query, uuid.New().String(), senderID, receiverID, text).Scan(
		&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Message, &msg.Timestamp, &msg.CreatedAt,
		&sender.Name, &sender.Email, &sender.Role,
		&receiver.Name, &receiver.Email, &receiver.Role,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	sender.ID = msg.SenderID
	receiver.ID = msg.ReceiverID
	msg.Sender = &sender
	msg.Receiver = &receiver
	return &msg, nil
}

// History returns the most recent messages between two users in ascending
// timestamp order, capped at the latest 100. The result is symmetric in
// its arguments.
func (r *ChatRepository) History(ctx context.Context, userA, userB string) ([]models.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, message, sent_at, created_at,
		       sender_name, sender_email, sender_role,
		       receiver_name, receiver_email, receiver_role
		FROM (
			SELECT m.id, m.sender_id, m.receiver_id, m.message, m.sent_at, m.created_at,
			       s.name AS sender_name, s.email AS sender_email, s.role AS sender_role,
			       rc.name AS receiver_name, rc.email AS receiver_email, rc.role AS receiver_role
			FROM chat_messages m
			JOIN users s ON s.id = m.sender_id
			JOIN users rc ON rc.id = m.receiver_id
			WHERE (m.sender_id = $1 AND m.receiver_id = $2)
			   OR (m.sender_id = $2 AND m.receiver_id = $1)
			ORDER BY m.sent_at DESC
			LIMIT $3
		) latest
		ORDER BY sent_at ASC
	`
	rows, err := r.db.Query(ctx, query, userA, userB, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var (
			msg      models.ChatMessage
			sender   models.UserSummary
			receiver models.UserSummary
		)
		err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Message, &msg.Timestamp, &msg.CreatedAt,
			&sender.Name, &sender.Email, &sender.Role,
			&receiver.Name, &receiver.Email, &receiver.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		sender.ID = msg.SenderID
		receiver.ID = msg.ReceiverID
		msg.Sender = &sender
		msg.Receiver = &receiver
		messages = append(messages, msg)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", rows.Err())
	}
	return messages, nil
}

// Conversations groups all messages touching a user by the other
// participant, keeping only the most recent message per counterpart,
// sorted by that message's recency
func (r *ChatRepository) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		WITH touching AS (
			SELECT m.id, m.sender_id, m.receiver_id, m.message, m.sent_at, m.created_at,
			       CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other_id
			FROM chat_messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		),
		latest AS (
			SELECT DISTINCT ON (other_id) *
			FROM touching
			ORDER BY other_id, sent_at DESC
		)
		SELECT l.id, l.sender_id, l.receiver_id, l.message, l.sent_at, l.created_at,
		       u.id, u.name, u.email, u.role
		FROM latest l
		JOIN users u ON u.id = l.other_id
		ORDER BY l.sent_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.LastMessage.ID, &conv.LastMessage.SenderID, &conv.LastMessage.ReceiverID,
			&conv.LastMessage.Message, &conv.LastMessage.Timestamp, &conv.LastMessage.CreatedAt,
			&conv.User.ID, &conv.User.Name, &conv.User.Email, &conv.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", rows.Err())
	}
	return conversations, nil
}

package messaging

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles conversation and message persistence.
type Service struct {
	db *sql.DB
}

// NewService creates a new messaging service
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// GetOrCreateConversation returns the thread between two users, creating
// it on first contact. Participants are stored in sorted order so the pair
// is unique regardless of who started the thread.
func (s *Service) GetOrCreateConversation(ctx context.Context, userA, userB string) (*Conversation, error) {
	if userB < userA {
		userA, userB = userB, userA
	}

	var conv Conversation
	query := `
		SELECT id, participant_a, participant_b, last_message, last_message_at, created_at
		FROM conversations
		WHERE participant_a = $1 AND participant_b = $2`

	err := s.db.QueryRowContext(ctx, query, userA, userB).Scan(
		&conv.ID, &conv.ParticipantA, &conv.ParticipantB,
		&conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt,
	)
	if err == nil {
		return &conv, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	conv = Conversation{
		ID:            uuid.New().String(),
		ParticipantA:  userA,
		ParticipantB:  userB,
		LastMessageAt: time.Now(),
		CreatedAt:     time.Now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, participant_a, participant_b, last_message_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (participant_a, participant_b) DO NOTHING`,
		conv.ID, conv.ParticipantA, conv.ParticipantB, conv.LastMessageAt, conv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &conv, nil
}

// GetConversation fetches a thread the user participates in.
func (s *Service) GetConversation(ctx context.Context, conversationID, userID string) (*Conversation, error) {
	var conv Conversation

	query := `
		SELECT id, participant_a, participant_b, last_message, last_message_at, created_at
		FROM conversations
		WHERE id = $1`

	err := s.db.QueryRowContext(ctx, query, conversationID).Scan(
		&conv.ID, &conv.ParticipantA, &conv.ParticipantB,
		&conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if conv.ParticipantA != userID && conv.ParticipantB != userID {
		return nil, ErrNotParticipant
	}

	return &conv, nil
}

// ListConversations returns the user's threads, most recent first, with
// unread counts.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	query := `
		SELECT c.id, c.participant_a, c.participant_b, c.last_message, c.last_message_at, c.created_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id
		          AND m.sender_id != $1 AND m.read_at IS NULL) as unread_count
		FROM conversations c
		WHERE c.participant_a = $1 OR c.participant_b = $1
		ORDER BY c.last_message_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]*Conversation, 0)
	for rows.Next() {
		var conv Conversation
		err := rows.Scan(
			&conv.ID, &conv.ParticipantA, &conv.ParticipantB,
			&conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt,
			&conv.UnreadCount,
		)
		if err != nil {
			continue
		}
		conversations = append(conversations, &conv)
	}

	return conversations, rows.Err()
}

// ListMessages returns a page of a thread's messages, newest first.
func (s *Service) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, conversation_id, sender_id, body, read_at, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		var m Message
		err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.ReadAt, &m.CreatedAt)
		if err != nil {
			continue
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

// SaveMessage persists a message and bumps the thread preview.
func (s *Service) SaveMessage(ctx context.Context, conversationID, senderID, body string) (*Message, error) {
	msg := &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET last_message = $1, last_message_at = $2 WHERE id = $3`,
		msg.Body, msg.CreatedAt, msg.ConversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return msg, nil
}

// MarkRead marks every message from the other party as read.
func (s *Service) MarkRead(ctx context.Context, conversationID, readerID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE messages SET read_at = NOW()
		 WHERE conversation_id = $1 AND sender_id != $2 AND read_at IS NULL`,
		conversationID, readerID,
	)
	return err
}

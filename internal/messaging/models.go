package messaging

import (
	"encoding/json"
	"errors"
	"time"
)

// Common errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a participant of this conversation")
)

// Conversation is a two-party message thread.
type Conversation struct {
	ID            string    `json:"id"`
	ParticipantA  string    `json:"participant_a"`
	ParticipantB  string    `json:"participant_b"`
	LastMessage   *string   `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is one persisted chat message.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// EventType defines the type of WebSocket event
type EventType string

const (
	// Client to server
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventRead    EventType = "read"

	// Server to client
	EventDelivery EventType = "delivery"
	EventError    EventType = "error"

	// System
	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// ClientEvent is what clients send over the socket.
type ClientEvent struct {
	Type EventType `json:"type"`
	To   string    `json:"to"`
	Body string    `json:"body,omitempty"`
}

// ServerEvent is what the server sends to clients.
type ServerEvent struct {
	Type           EventType `json:"type"`
	From           string    `json:"from,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	MessageID      string    `json:"message_id,omitempty"`
	Body           string    `json:"body,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// ParseClientEvent parses a raw WebSocket frame.
func ParseClientEvent(data []byte) (*ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// NewErrorEvent builds an error frame for a client.
func NewErrorEvent(message string) []byte {
	ev := ServerEvent{
		Type:      EventError,
		Body:      message,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(ev)
	return data
}

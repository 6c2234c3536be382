package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one WebSocket connection for a user. A user may hold several
// connections at once (multiple tabs or devices).
type Client struct {
	UserID string
	ConnID string

	conn *websocket.Conn
	hub  *Hub
	svc  *Service

	send chan []byte

	lastActive   time.Time
	lastActiveMu sync.RWMutex

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub, svc *Service, userID string) *Client {
	return &Client{
		UserID:     userID,
		ConnID:     uuid.New().String(),
		conn:       conn,
		hub:        hub,
		svc:        svc,
		send:       make(chan []byte, 64),
		lastActive: time.Now(),
	}
}

// Serve registers the client and pumps frames until the connection drops.
// It blocks until the read loop exits.
func (c *Client) Serve() {
	c.hub.register <- c

	go c.writePump()
	c.readPump()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

func (c *Client) GetLastActive() time.Time {
	c.lastActiveMu.RLock()
	defer c.lastActiveMu.RUnlock()
	return c.lastActive
}

func (c *Client) touch() {
	c.lastActiveMu.Lock()
	c.lastActive = time.Now()
	c.lastActiveMu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch()
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: UserID=%s, error=%v", c.UserID, err)
			}
			return
		}

		c.touch()
		c.handleEvent(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(data []byte) {
	ev, err := ParseClientEvent(data)
	if err != nil {
		c.sendError("invalid event")
		return
	}

	switch ev.Type {
	case EventPing:
		c.sendEvent(ServerEvent{Type: EventPong, Timestamp: time.Now().UTC()})

	case EventMessage:
		c.handleMessage(ev)

	case EventTyping:
		if ev.To == "" {
			return
		}
		c.hub.Deliver(&Delivery{
			From: c.UserID,
			To:   ev.To,
			Type: EventTyping,
		})

	case EventRead:
		c.handleRead(ev)

	default:
		c.sendError("unknown event type")
	}
}

func (c *Client) handleMessage(ev *ClientEvent) {
	if ev.To == "" || ev.Body == "" {
		c.sendError("message requires recipient and body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conv, err := c.svc.GetOrCreateConversation(ctx, c.UserID, ev.To)
	if err != nil {
		log.Printf("Failed to resolve conversation: %v", err)
		c.sendError("failed to send message")
		return
	}

	msg, err := c.svc.SaveMessage(ctx, conv.ID, c.UserID, ev.Body)
	if err != nil {
		log.Printf("Failed to save message: %v", err)
		c.sendError("failed to send message")
		return
	}

	c.hub.Deliver(&Delivery{
		From:           c.UserID,
		To:             ev.To,
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		Type:           EventMessage,
		Body:           ev.Body,
	})

	// Echo delivery confirmation back to the sender.
	c.sendEvent(ServerEvent{
		Type:           EventDelivery,
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		Timestamp:      msg.CreatedAt,
	})
}

func (c *Client) handleRead(ev *ClientEvent) {
	// For read receipts the client sets To to the conversation ID.
	if ev.To == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conv, err := c.svc.GetConversation(ctx, ev.To, c.UserID)
	if err != nil {
		return
	}

	if err := c.svc.MarkRead(ctx, conv.ID, c.UserID); err != nil {
		log.Printf("Failed to mark conversation read: %v", err)
		return
	}

	other := conv.ParticipantA
	if other == c.UserID {
		other = conv.ParticipantB
	}

	c.hub.Deliver(&Delivery{
		From:           c.UserID,
		To:             other,
		ConversationID: conv.ID,
		Type:           EventRead,
	})
}

func (c *Client) sendEvent(ev ServerEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(message string) {
	select {
	case c.send <- NewErrorEvent(message):
	default:
	}
}

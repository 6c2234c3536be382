package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"escort-directory/internal/presence"
)

// Delivery is a routed chat event plus its sender.
type Delivery struct {
	From           string
	To             string
	ConversationID string
	MessageID      string
	Type           EventType
	Body           string
}

// Hub routes chat events to connected clients and queues them for offline
// recipients.
type Hub struct {
	clients   map[string]map[string]*Client
	clientsMu sync.RWMutex

	deliver    chan *Delivery
	register   chan *Client
	unregister chan *Client

	presence *presence.Tracker

	stats   *HubStats
	statsMu sync.RWMutex
}

type HubStats struct {
	TotalConnections  int64
	ActiveConnections int
	MessagesDelivered int64
	LastActivity      time.Time
}

func NewHub(presenceTracker *presence.Tracker) *Hub {
	return &Hub{
		clients:    make(map[string]map[string]*Client),
		deliver:    make(chan *Delivery, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   presenceTracker,
		stats:      &HubStats{},
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case delivery := <-h.deliver:
			h.deliverEvent(delivery)

		case <-ticker.C:
			h.cleanup()
		}
	}
}

// Deliver queues an event for routing.
func (h *Hub) Deliver(d *Delivery) {
	h.deliver <- d
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, exists := h.clients[client.UserID]; !exists {
		h.clients[client.UserID] = make(map[string]*Client)
	}

	h.clients[client.UserID][client.ConnID] = client

	h.updateStats(func(s *HubStats) {
		s.TotalConnections++
		s.ActiveConnections = h.countActiveConnections()
		s.LastActivity = time.Now()
	})

	if h.presence != nil {
		ctx := context.Background()
		h.presence.SetOnline(ctx, client.UserID)
	}

	log.Printf("Chat client connected: UserID=%s", client.UserID)

	h.deliverPending(client)
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	conns, exists := h.clients[client.UserID]
	if !exists {
		return
	}
	if _, exists := conns[client.ConnID]; !exists {
		return
	}

	delete(conns, client.ConnID)
	client.Close()

	if len(conns) == 0 {
		delete(h.clients, client.UserID)
		if h.presence != nil {
			h.presence.SetOffline(context.Background(), client.UserID)
		}
	}

	h.updateStats(func(s *HubStats) {
		s.ActiveConnections = h.countActiveConnections()
	})

	log.Printf("Chat client disconnected: UserID=%s", client.UserID)
}

func (h *Hub) deliverEvent(d *Delivery) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	ev := ServerEvent{
		Type:           d.Type,
		From:           d.From,
		ConversationID: d.ConversationID,
		MessageID:      d.MessageID,
		Body:           d.Body,
		Timestamp:      time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	conns, online := h.clients[d.To]
	if !online {
		// Persisted messages are queued for the next connect; typing and
		// read events are dropped for offline users.
		if d.Type == EventMessage && h.presence != nil {
			h.presence.StorePendingMessage(context.Background(), d.To, ev)
		}
		return
	}

	delivered := false
	for _, client := range conns {
		select {
		case client.send <- data:
			delivered = true
		default:
			log.Printf("Client buffer full: UserID=%s", d.To)
		}
	}

	if delivered {
		h.updateStats(func(s *HubStats) {
			s.MessagesDelivered++
			s.LastActivity = time.Now()
		})
	}
}

func (h *Hub) deliverPending(client *Client) {
	if h.presence == nil {
		return
	}

	ctx := context.Background()
	messages, err := h.presence.GetPendingMessages(ctx, client.UserID)
	if err != nil {
		return
	}

	for _, raw := range messages {
		select {
		case client.send <- []byte(raw):
		default:
		}
	}

	h.presence.ClearPendingMessages(ctx, client.UserID)
}

func (h *Hub) cleanup() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	now := time.Now()
	for userID, conns := range h.clients {
		for connID, client := range conns {
			if now.Sub(client.GetLastActive()) > 5*time.Minute {
				log.Printf("Removing inactive chat client: UserID=%s", userID)
				delete(conns, connID)
				client.Close()
			}
		}
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

func (h *Hub) GetStats() HubStats {
	h.statsMu.RLock()
	defer h.statsMu.RUnlock()
	return *h.stats
}

func (h *Hub) countActiveConnections() int {
	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	fn(h.stats)
}

package messaging

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
	}
}

// ListConversations returns the caller's conversations, most recent first.
func (h *Handler) ListConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	conversations, err := h.service.ListConversations(c.Context(), userID)
	if err != nil {
		log.Printf("Failed to list conversations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}

	if conversations == nil {
		conversations = []*Conversation{}
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// StartConversation finds or creates the conversation between the caller
// and another user.
func (h *Handler) StartConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	if req.UserID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot start a conversation with yourself",
		})
	}

	conv, err := h.service.GetOrCreateConversation(c.Context(), userID, req.UserID)
	if err != nil {
		log.Printf("Failed to start conversation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start conversation",
		})
	}

	return c.JSON(conv)
}

// ListMessages returns a page of messages for a conversation, newest first.
func (h *Handler) ListMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	conversationID := c.Params("id")

	if _, err := h.service.GetConversation(c.Context(), conversationID, userID); err != nil {
		return conversationError(c, err)
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	messages, err := h.service.ListMessages(c.Context(), conversationID, limit, offset)
	if err != nil {
		log.Printf("Failed to list messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list messages",
		})
	}

	if messages == nil {
		messages = []*Message{}
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"count":    len(messages),
	})
}

// MarkRead marks all messages from the other participant as read.
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	conversationID := c.Params("id")

	if _, err := h.service.GetConversation(c.Context(), conversationID, userID); err != nil {
		return conversationError(c, err)
	}

	if err := h.service.MarkRead(c.Context(), conversationID, userID); err != nil {
		log.Printf("Failed to mark conversation read: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark conversation read",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Conversation marked as read",
	})
}

// Stats exposes hub connection counters.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats := h.hub.GetStats()
	return c.JSON(fiber.Map{
		"total_connections":  stats.TotalConnections,
		"active_connections": stats.ActiveConnections,
		"messages_delivered": stats.MessagesDelivered,
		"last_activity":      stats.LastActivity,
	})
}

// UpgradeMiddleware rejects plain HTTP requests on the WebSocket route.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler serves the chat connection. The auth middleware must run
// before the upgrade so userID is present in Locals.
func (h *Handler) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(string)
		if !ok || userID == "" {
			conn.Close()
			return
		}

		client := NewClient(conn, h.hub, h.service, userID)
		client.Serve()
	})
}

func conversationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	case errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not a participant in this conversation",
		})
	default:
		log.Printf("Conversation lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}
}

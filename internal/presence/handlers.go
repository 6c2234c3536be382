package presence

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"escort-directory/internal/profiles"
)

// Handler exposes presence over HTTP: a heartbeat for logged-in clients and
// an online badge for listing cards.
type Handler struct {
	tracker  *Tracker
	profiles *profiles.Service
}

func NewHandler(tracker *Tracker, profileService *profiles.Service) *Handler {
	return &Handler{
		tracker:  tracker,
		profiles: profileService,
	}
}

// Heartbeat refreshes the caller's presence. It also touches the profile's
// last_active column, which feeds the directory's active-today filter.
func (h *Handler) Heartbeat(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := h.tracker.Heartbeat(c.Context(), userID); err != nil {
		log.Printf("Heartbeat failed for %s: %v", userID, err)
	}
	if err := h.profiles.TouchLastActive(c.Context(), userID); err != nil {
		log.Printf("Failed to touch last_active for %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// OnlineStatus returns whether a user currently holds a live connection,
// with their last-seen time when known.
func (h *Handler) OnlineStatus(c *fiber.Ctx) error {
	userID := c.Params("id")

	online, err := h.tracker.IsOnline(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check presence",
		})
	}

	resp := fiber.Map{
		"user_id": userID,
		"online":  online,
	}
	if lastSeen, err := h.tracker.LastSeen(c.Context(), userID); err == nil && !lastSeen.IsZero() {
		resp["last_seen"] = lastSeen.UTC().Format(time.RFC3339)
	}

	return c.JSON(resp)
}

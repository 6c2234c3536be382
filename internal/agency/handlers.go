package agency

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"escort-directory/internal/profiles"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Invite sends an invitation to an escort. Agency role only.
func (h *Handler) Invite(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)

	var req struct {
		EscortID string `json:"escort_id"`
		Message  string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.EscortID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "escort_id is required",
		})
	}

	inv, err := h.service.Invite(c.Context(), agencyID, req.EscortID, req.Message)
	if err != nil {
		return invitationError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(inv)
}

// ListSent returns all invitations the agency has sent.
func (h *Handler) ListSent(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)

	invitations, err := h.service.ListForAgency(c.Context(), agencyID)
	if err != nil {
		log.Printf("Failed to list agency invitations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list invitations",
		})
	}

	if invitations == nil {
		invitations = []*Invitation{}
	}

	return c.JSON(fiber.Map{
		"invitations": invitations,
		"count":       len(invitations),
	})
}

// ListReceived returns the escort's pending invitations.
func (h *Handler) ListReceived(c *fiber.Ctx) error {
	escortID := c.Locals("userID").(string)

	invitations, err := h.service.ListForEscort(c.Context(), escortID)
	if err != nil {
		log.Printf("Failed to list escort invitations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list invitations",
		})
	}

	if invitations == nil {
		invitations = []*Invitation{}
	}

	return c.JSON(fiber.Map{
		"invitations": invitations,
		"count":       len(invitations),
	})
}

// Accept resolves an invitation and joins the agency. Escort role only.
func (h *Handler) Accept(c *fiber.Ctx) error {
	escortID := c.Locals("userID").(string)
	invitationID := c.Params("id")

	if err := h.service.Accept(c.Context(), invitationID, escortID); err != nil {
		return invitationError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation accepted",
	})
}

// Decline resolves an invitation without joining.
func (h *Handler) Decline(c *fiber.Ctx) error {
	escortID := c.Locals("userID").(string)
	invitationID := c.Params("id")

	if err := h.service.Decline(c.Context(), invitationID, escortID); err != nil {
		return invitationError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation declined",
	})
}

// Revoke withdraws a pending invitation. Agency role only.
func (h *Handler) Revoke(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)
	invitationID := c.Params("id")

	if err := h.service.Revoke(c.Context(), invitationID, agencyID); err != nil {
		return invitationError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation revoked",
	})
}

// Roster lists the escorts managed by the agency.
func (h *Handler) Roster(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)

	roster, err := h.service.Roster(c.Context(), agencyID)
	if err != nil {
		log.Printf("Failed to load agency roster: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load roster",
		})
	}

	cards := make([]*profiles.PublicProfile, 0, len(roster))
	for _, p := range roster {
		cards = append(cards, p.Public())
	}

	return c.JSON(fiber.Map{
		"escorts": cards,
		"count":   len(cards),
	})
}

// RemoveEscort unlinks an escort from the agency's roster.
func (h *Handler) RemoveEscort(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)
	escortID := c.Params("escortId")

	if err := h.service.Remove(c.Context(), agencyID, escortID); err != nil {
		return invitationError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Escort removed from agency",
	})
}

// Leave detaches the calling escort from their agency.
func (h *Handler) Leave(c *fiber.Ctx) error {
	escortID := c.Locals("userID").(string)

	if err := h.service.Leave(c.Context(), escortID); err != nil {
		log.Printf("Failed to leave agency: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to leave agency",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Left agency",
	})
}

func invitationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvitationNotFound), errors.Is(err, profiles.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invitation not found",
		})
	case errors.Is(err, ErrInvitationClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invitation already resolved",
		})
	case errors.Is(err, ErrAlreadyLinked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Escort already belongs to an agency",
		})
	case errors.Is(err, ErrSeatLimitReached):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Agency seat limit reached, upgrade your subscription",
		})
	case errors.Is(err, ErrNotAnEscort):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Target user is not an escort",
		})
	default:
		log.Printf("Agency operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Agency operation failed",
		})
	}
}

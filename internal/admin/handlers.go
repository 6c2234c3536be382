package admin

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

// PendingProfiles lists escort profiles awaiting moderation.
func (h *Handler) PendingProfiles(c *fiber.Ctx) error {
	pending, err := h.service.PendingProfiles(c.Context())
	if err != nil {
		log.Printf("Failed to list pending profiles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pending profiles",
		})
	}

	if pending == nil {
		pending = []*profiles.Profile{}
	}

	return c.JSON(fiber.Map{
		"profiles": pending,
		"count":    len(pending),
	})
}

// ApproveProfile admits a profile to the public directory.
func (h *Handler) ApproveProfile(c *fiber.Ctx) error {
	if err := h.service.ApproveProfile(c.Context(), c.Params("id")); err != nil {
		return profileError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile approved"})
}

// RejectProfile refuses a profile.
func (h *Handler) RejectProfile(c *fiber.Ctx) error {
	if err := h.service.RejectProfile(c.Context(), c.Params("id")); err != nil {
		return profileError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile rejected"})
}

// SuspendProfile hides a live profile.
func (h *Handler) SuspendProfile(c *fiber.Ctx) error {
	if err := h.service.SuspendProfile(c.Context(), c.Params("id")); err != nil {
		return profileError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile suspended"})
}

// RestoreProfile brings a suspended profile back.
func (h *Handler) RestoreProfile(c *fiber.Ctx) error {
	if err := h.service.RestoreProfile(c.Context(), c.Params("id")); err != nil {
		return profileError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile restored"})
}

// SubmitVerification lets an escort request the verified badge.
func (h *Handler) SubmitVerification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		PhotoURL string `json:"photo_url"`
		Code     string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.PhotoURL == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "photo_url and code are required",
		})
	}

	v, err := h.service.SubmitVerification(c.Context(), userID, req.PhotoURL, req.Code)
	if err != nil {
		log.Printf("Failed to submit verification: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit verification",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(v)
}

// PendingVerifications lists verification requests awaiting review.
func (h *Handler) PendingVerifications(c *fiber.Ctx) error {
	pending, err := h.service.PendingVerifications(c.Context())
	if err != nil {
		log.Printf("Failed to list verifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list verifications",
		})
	}

	if pending == nil {
		pending = []*PhotoVerification{}
	}

	return c.JSON(fiber.Map{
		"verifications": pending,
		"count":         len(pending),
	})
}

// ReviewVerification approves or rejects a verification request.
func (h *Handler) ReviewVerification(c *fiber.Ctx) error {
	reviewerID := c.Locals("userID").(string)

	var req struct {
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.service.ReviewVerification(c.Context(), c.Params("id"), reviewerID, req.Approve, req.Reason)
	if err != nil {
		if errors.Is(err, ErrVerificationClosed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Verification request already reviewed",
			})
		}
		log.Printf("Failed to review verification: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to review verification",
		})
	}

	return c.JSON(fiber.Map{"message": "Verification reviewed"})
}

// Stats returns the dashboard counters.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		log.Printf("Failed to build platform stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build stats",
		})
	}

	return c.JSON(stats)
}

func profileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, profiles.ErrProfileNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	log.Printf("Moderation action failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Moderation action failed",
	})
}

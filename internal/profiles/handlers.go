package profiles

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
)

// Handler handles profile HTTP requests for the authenticated account.
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(db *sql.DB) *Handler {
	return &Handler{service: NewService(db)}
}

// Service exposes the underlying profile service for wiring.
func (h *Handler) Service() *Service {
	return h.service
}

// GetMe returns the authenticated account's profile.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		if err == ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch profile",
		})
	}

	return c.JSON(profile)
}

// UpdateMe applies a partial update to the authenticated account's profile.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.service.UpdateProfile(c.Context(), userID, &req)
	if err != nil {
		if err == ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// UpdateEscort lets an agency manager or admin edit a managed escort profile.
func (h *Handler) UpdateEscort(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	targetID := c.Params("id")

	actor, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account not found",
		})
	}

	target, err := h.service.GetProfile(c.Context(), targetID)
	if err != nil {
		if err == ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch profile",
		})
	}

	if !h.service.CanManage(actor, target) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not allowed to edit this profile",
		})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.service.UpdateProfile(c.Context(), targetID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// Deactivate soft-deactivates the authenticated account's listing.
func (h *Handler) Deactivate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := h.service.SetActive(c.Context(), userID, false); err != nil {
		if err == ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile deactivated",
	})
}

// Reactivate re-enables a previously deactivated listing.
func (h *Handler) Reactivate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := h.service.SetActive(c.Context(), userID, true); err != nil {
		if err == ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reactivate profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile reactivated",
	})
}

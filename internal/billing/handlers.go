package billing

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler handles subscription endpoints.
type Handler struct {
	service  *Service
	provider CheckoutProvider
}

// NewHandler creates a new billing handler
func NewHandler(db *sql.DB, provider CheckoutProvider) *Handler {
	return &Handler{
		service:  NewService(db),
		provider: provider,
	}
}

// Service exposes the underlying billing service for wiring.
func (h *Handler) Service() *Service {
	return h.service
}

// CreateCheckout starts a checkout session and returns the redirect URL.
func (h *Handler) CreateCheckout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Email string `json:"email"`
		Tier  string `json:"tier"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !ValidTier(req.Tier) || req.Tier == TierTrial {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown subscription tier",
		})
	}

	url, err := h.provider.CreateCheckout(c.Context(), userID, req.Email, req.Tier)
	if err != nil {
		log.Printf("Checkout creation failed for %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}

// CreateAgencySubscription starts a seat-limited agency checkout.
func (h *Handler) CreateAgencySubscription(c *fiber.Ctx) error {
	agencyID := c.Locals("userID").(string)

	var req struct {
		Email string `json:"email"`
		Tier  string `json:"tier"`
		Seats int    `json:"seats"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !ValidTier(req.Tier) || req.Tier == TierTrial {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown subscription tier",
		})
	}
	if req.Seats < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Seat count must be at least 1",
		})
	}

	url, err := h.provider.CreateAgencyCheckout(c.Context(), agencyID, req.Email, req.Tier, req.Seats)
	if err != nil {
		log.Printf("Agency checkout creation failed for %s: %v", agencyID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}

// CheckSubscription returns the account's current entitlement.
func (h *Handler) CheckSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	sub, err := h.service.GetSubscriber(c.Context(), userID)
	if err != nil {
		if err == ErrSubscriberNotFound {
			return c.JSON(fiber.Map{
				"subscribed": false,
				"tier":       TierTrial,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check subscription",
		})
	}

	return c.JSON(fiber.Map{
		"subscribed":       sub.Subscribed,
		"tier":             h.service.TierFor(c.Context(), userID),
		"subscription_end": sub.SubscriptionEnd,
	})
}

// CustomerPortal returns the provider's self-service portal URL.
func (h *Handler) CustomerPortal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	sub, err := h.service.GetSubscriber(c.Context(), userID)
	if err != nil || sub.CustomerID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No billing account found",
		})
	}

	url, err := h.provider.CustomerPortal(c.Context(), *sub.CustomerID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to open customer portal",
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}

// CancelSubscription drops the account back to the trial tier.
func (h *Handler) CancelSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := h.service.CancelSubscription(c.Context(), userID); err != nil {
		if err == ErrSubscriberNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No subscription found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel subscription",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled",
	})
}

// ConfirmSubscription is the provider-facing activation callback.
func (h *Handler) ConfirmSubscription(c *fiber.Ctx) error {
	var req struct {
		UserID     string     `json:"user_id"`
		Email      string     `json:"email"`
		Tier       string     `json:"tier"`
		CustomerID *string    `json:"customer_id"`
		PeriodEnd  *time.Time `json:"period_end"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sub, err := h.service.ConfirmSubscription(c.Context(), req.UserID, req.Email, req.Tier, req.CustomerID, req.PeriodEnd)
	if err != nil {
		if err == ErrUnknownTier {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown subscription tier",
			})
		}
		log.Printf("Subscription confirmation failed for %s: %v", req.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to confirm subscription",
		})
	}

	return c.JSON(sub)
}

// ConfirmAgencySubscription is the provider-facing activation callback
// for seat-limited agency plans.
func (h *Handler) ConfirmAgencySubscription(c *fiber.Ctx) error {
	var req struct {
		AgencyID  string     `json:"agency_id"`
		Tier      string     `json:"tier"`
		Seats     int        `json:"seats"`
		PeriodEnd *time.Time `json:"period_end"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Seats < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Seat count must be at least 1",
		})
	}

	sub, err := h.service.ConfirmAgencySubscription(c.Context(), req.AgencyID, req.Tier, req.Seats, req.PeriodEnd)
	if err != nil {
		if err == ErrUnknownTier {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown subscription tier",
			})
		}
		log.Printf("Agency subscription confirmation failed for %s: %v", req.AgencyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to confirm subscription",
		})
	}

	return c.JSON(sub)
}

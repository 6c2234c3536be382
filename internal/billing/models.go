package billing

import (
	"errors"
	"time"
)

// Named subscription tiers
const (
	TierTrial    = "trial"
	TierBasic    = "basic"
	TierPackage1 = "package1"
	TierPackage2 = "package2"
	TierPackage3 = "package3"
	TierPackage4 = "package4"
	TierPlatinum = "platinum"
)

// Common errors
var (
	ErrSubscriberNotFound   = errors.New("subscriber not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUnknownTier          = errors.New("unknown subscription tier")
)

// Subscriber is one account's entitlement record, kept in sync with the
// payment provider.
type Subscriber struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Email            string     `json:"email"`
	CustomerID       *string    `json:"customer_id,omitempty"`
	Subscribed       bool       `json:"subscribed"`
	SubscriptionTier string     `json:"subscription_tier"`
	SubscriptionEnd  *time.Time `json:"subscription_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AgencySubscription is a seat-limited subscription held by an agency.
type AgencySubscription struct {
	ID               string     `json:"id"`
	AgencyID         string     `json:"agency_id"`
	Tier             string     `json:"tier"`
	SeatLimit        int        `json:"seat_limit"`
	Active           bool       `json:"active"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ValidTier reports whether the tier name is known.
func ValidTier(tier string) bool {
	switch tier {
	case TierTrial, TierBasic, TierPackage1, TierPackage2,
		TierPackage3, TierPackage4, TierPlatinum:
		return true
	}
	return false
}

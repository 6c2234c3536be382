package billing

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// CheckoutProvider is the black-box payment service. Implementations return
// redirect URLs; the actual payment lifecycle happens on the provider's side
// and comes back through ConfirmSubscription.
type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, userID, email, tier string) (string, error)
	CreateAgencyCheckout(ctx context.Context, agencyID, email, tier string, seats int) (string, error)
	CustomerPortal(ctx context.Context, customerID string) (string, error)
}

// MockCheckoutProvider for development/testing
type MockCheckoutProvider struct {
	BaseURL string
}

func NewMockCheckoutProvider(baseURL string) *MockCheckoutProvider {
	return &MockCheckoutProvider{BaseURL: baseURL}
}

// StripeProvider for production use
type StripeProvider struct {
	apiKey  string
	baseURL string
	// In production, you'd use the Stripe Go SDK here
}

func NewStripeProvider(apiKey, baseURL string) *StripeProvider {
	return &StripeProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

func (p *StripeProvider) CreateCheckout(ctx context.Context, userID, email, tier string) (string, error) {
	// TODO: create a real Stripe Checkout session
	log.Printf("[STRIPE] Would create checkout for user=%s tier=%s", userID, tier)
	return fmt.Sprintf("%s/checkout?tier=%s", p.baseURL, tier), nil
}

func (p *StripeProvider) CreateAgencyCheckout(ctx context.Context, agencyID, email, tier string, seats int) (string, error) {
	// TODO: create a real Stripe Checkout session with seat quantity
	log.Printf("[STRIPE] Would create agency checkout for agency=%s tier=%s seats=%d", agencyID, tier, seats)
	return fmt.Sprintf("%s/checkout?tier=%s&seats=%d", p.baseURL, tier, seats), nil
}

func (p *StripeProvider) CustomerPortal(ctx context.Context, customerID string) (string, error) {
	return fmt.Sprintf("%s/portal/%s", p.baseURL, customerID), nil
}

func (m *MockCheckoutProvider) CreateCheckout(ctx context.Context, userID, email, tier string) (string, error) {
	sessionID := uuid.New().String()
	log.Printf("[MOCK CHECKOUT] user=%s email=%s tier=%s session=%s", userID, email, tier, sessionID)
	return fmt.Sprintf("%s/checkout/%s?tier=%s", m.BaseURL, sessionID, tier), nil
}

func (m *MockCheckoutProvider) CreateAgencyCheckout(ctx context.Context, agencyID, email, tier string, seats int) (string, error) {
	sessionID := uuid.New().String()
	log.Printf("[MOCK CHECKOUT] agency=%s tier=%s seats=%d session=%s", agencyID, tier, seats, sessionID)
	return fmt.Sprintf("%s/checkout/%s?tier=%s&seats=%d", m.BaseURL, sessionID, tier, seats), nil
}

func (m *MockCheckoutProvider) CustomerPortal(ctx context.Context, customerID string) (string, error) {
	return fmt.Sprintf("%s/portal/%s", m.BaseURL, customerID), nil
}

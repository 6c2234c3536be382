package billing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles subscription entitlements.
type Service struct {
	db *sql.DB
}

// NewService creates a new billing service
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// GetSubscriber retrieves an account's entitlement record.
func (s *Service) GetSubscriber(ctx context.Context, userID string) (*Subscriber, error) {
	var sub Subscriber

	query := `
		SELECT id, user_id, email, customer_id, subscribed,
		       subscription_tier, subscription_end, created_at, updated_at
		FROM subscribers
		WHERE user_id = $1`

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID, &sub.UserID, &sub.Email, &sub.CustomerID, &sub.Subscribed,
		&sub.SubscriptionTier, &sub.SubscriptionEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}

	return &sub, nil
}

// TierFor resolves the effective tier of an account. Accounts without an
// active, unexpired subscription fall back to trial.
func (s *Service) TierFor(ctx context.Context, userID string) string {
	sub, err := s.GetSubscriber(ctx, userID)
	if err != nil {
		return TierTrial
	}

	if !sub.Subscribed {
		return TierTrial
	}
	if sub.SubscriptionEnd != nil && sub.SubscriptionEnd.Before(time.Now()) {
		return TierTrial
	}
	if !ValidTier(sub.SubscriptionTier) {
		return TierTrial
	}

	return sub.SubscriptionTier
}

// ConfirmSubscription upserts the entitlement after the provider reports
// an activated subscription.
func (s *Service) ConfirmSubscription(ctx context.Context, userID, email, tier string, customerID *string, end *time.Time) (*Subscriber, error) {
	if !ValidTier(tier) {
		return nil, ErrUnknownTier
	}

	query := `
		INSERT INTO subscribers (id, user_id, email, customer_id, subscribed,
		                         subscription_tier, subscription_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email = $3, customer_id = $4, subscribed = true,
		    subscription_tier = $5, subscription_end = $6, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), userID, email, customerID, tier, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm subscription: %w", err)
	}

	return s.GetSubscriber(ctx, userID)
}

// CancelSubscription drops the entitlement back to trial.
func (s *Service) CancelSubscription(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE subscribers SET subscribed = false, updated_at = NOW() WHERE user_id = $1`,
		userID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// GetAgencySubscription retrieves an agency's seat subscription.
func (s *Service) GetAgencySubscription(ctx context.Context, agencyID string) (*AgencySubscription, error) {
	var sub AgencySubscription

	query := `
		SELECT id, agency_id, tier, seat_limit, active,
		       current_period_end, created_at, updated_at
		FROM agency_subscriptions
		WHERE agency_id = $1`

	err := s.db.QueryRowContext(ctx, query, agencyID).Scan(
		&sub.ID, &sub.AgencyID, &sub.Tier, &sub.SeatLimit, &sub.Active,
		&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &sub, nil
}

// ConfirmAgencySubscription upserts the seat subscription after the
// provider reports activation.
func (s *Service) ConfirmAgencySubscription(ctx context.Context, agencyID, tier string, seats int, end *time.Time) (*AgencySubscription, error) {
	if !ValidTier(tier) {
		return nil, ErrUnknownTier
	}

	query := `
		INSERT INTO agency_subscriptions (id, agency_id, tier, seat_limit, active,
		                                  current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, NOW(), NOW())
		ON CONFLICT (agency_id) DO UPDATE
		SET tier = $3, seat_limit = $4, active = true,
		    current_period_end = $5, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), agencyID, tier, seats, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm agency subscription: %w", err)
	}

	return s.GetAgencySubscription(ctx, agencyID)
}

// SeatLimit returns the number of escort seats an agency may fill. Agencies
// without an active subscription get no seats.
func (s *Service) SeatLimit(ctx context.Context, agencyID string) int {
	sub, err := s.GetAgencySubscription(ctx, agencyID)
	if err != nil || !sub.Active {
		return 0
	}
	if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(time.Now()) {
		return 0
	}
	return sub.SeatLimit
}

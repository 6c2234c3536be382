package admin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"escort-directory/internal/profiles"
)

// Service covers the moderation surface: the profile approval queue,
// photo verification review, and platform stats.
type Service struct {
	db       *sql.DB
	profiles *profiles.Service
}

func NewService(db *sql.DB, profileService *profiles.Service) *Service {
	return &Service{
		db:       db,
		profiles: profileService,
	}
}

// PendingProfiles returns escort profiles awaiting moderation.
func (s *Service) PendingProfiles(ctx context.Context) ([]*profiles.Profile, error) {
	return s.profiles.ListByStatus(ctx, profiles.StatusPending)
}

// ApproveProfile makes the profile publicly listable.
func (s *Service) ApproveProfile(ctx context.Context, id string) error {
	return s.profiles.SetStatus(ctx, id, profiles.StatusApproved)
}

// RejectProfile keeps the profile out of the directory.
func (s *Service) RejectProfile(ctx context.Context, id string) error {
	return s.profiles.SetStatus(ctx, id, profiles.StatusRejected)
}

// SuspendProfile deactivates the profile without deleting it.
func (s *Service) SuspendProfile(ctx context.Context, id string) error {
	return s.profiles.SetActive(ctx, id, false)
}

// RestoreProfile reactivates a suspended profile.
func (s *Service) RestoreProfile(ctx context.Context, id string) error {
	return s.profiles.SetActive(ctx, id, true)
}

// SubmitVerification records a new photo verification request.
func (s *Service) SubmitVerification(ctx context.Context, userID, photoURL, code string) (*PhotoVerification, error) {
	v := &PhotoVerification{
		ID:        uuid.New().String(),
		UserID:    userID,
		PhotoURL:  photoURL,
		Code:      code,
		Status:    VerificationPending,
		CreatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO photo_verifications (id, user_id, photo_url, code, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.UserID, v.PhotoURL, v.Code, v.Status, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to submit verification: %w", err)
	}

	return v, nil
}

// PendingVerifications returns verification requests awaiting review.
func (s *Service) PendingVerifications(ctx context.Context) ([]*PhotoVerification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, photo_url, code, status, reviewed_by, reason, created_at, reviewed_at
		 FROM photo_verifications
		 WHERE status = 'pending'
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	defer rows.Close()

	var verifications []*PhotoVerification
	for rows.Next() {
		var v PhotoVerification
		err := rows.Scan(&v.ID, &v.UserID, &v.PhotoURL, &v.Code, &v.Status,
			&v.ReviewedBy, &v.Reason, &v.CreatedAt, &v.ReviewedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		verifications = append(verifications, &v)
	}

	return verifications, rows.Err()
}

// ReviewVerification resolves a pending request. Approving also flips the
// profile's verified badge.
func (s *Service) ReviewVerification(ctx context.Context, id, reviewerID string, approve bool, reason string) error {
	status := VerificationRejected
	if approve {
		status = VerificationApproved
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	var userID string
	err := s.db.QueryRowContext(ctx,
		`UPDATE photo_verifications
		 SET status = $1, reviewed_by = $2, reason = $3, reviewed_at = NOW()
		 WHERE id = $4 AND status = 'pending'
		 RETURNING user_id`,
		status, reviewerID, reasonPtr, id).Scan(&userID)
	if err == sql.ErrNoRows {
		return ErrVerificationClosed
	}
	if err != nil {
		return fmt.Errorf("failed to review verification: %w", err)
	}

	if approve {
		return s.profiles.SetVerified(ctx, userID, true)
	}
	return nil
}

// Stats builds the dashboard counters in a single pass per table.
func (s *Service) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'escort'),
			COUNT(*) FILTER (WHERE role = 'agency'),
			COUNT(*) FILTER (WHERE role = 'client'),
			COUNT(*) FILTER (WHERE role = 'escort' AND status = 'pending')
		FROM profiles WHERE deleted_at IS NULL`).Scan(
		&stats.TotalUsers, &stats.TotalEscorts, &stats.TotalAgencies,
		&stats.TotalClients, &stats.PendingProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM photo_verifications WHERE status = 'pending'`).
		Scan(&stats.PendingVerifications)
	if err != nil {
		return nil, fmt.Errorf("failed to count verifications: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE subscribed AND subscription_end > NOW()`).
		Scan(&stats.ActiveSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE created_at > NOW() - INTERVAL '24 hours'`).
		Scan(&stats.MessagesLast24h)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return stats, nil
}

package admin

import (
	"errors"
	"time"
)

var (
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrVerificationClosed   = errors.New("verification request already reviewed")
)

// Verification statuses.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// PhotoVerification is an escort's request to earn the verified badge by
// submitting a photo holding a handwritten code.
type PhotoVerification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	PhotoURL   string     `json:"photo_url"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	Reason     *string    `json:"reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers           int `json:"total_users"`
	TotalEscorts         int `json:"total_escorts"`
	TotalAgencies        int `json:"total_agencies"`
	TotalClients         int `json:"total_clients"`
	PendingProfiles      int `json:"pending_profiles"`
	PendingVerifications int `json:"pending_verifications"`
	ActiveSubscriptions  int `json:"active_subscriptions"`
	MessagesLast24h      int `json:"messages_last_24h"`
}

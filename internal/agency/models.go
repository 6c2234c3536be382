package agency

import (
	"errors"
	"time"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationClosed   = errors.New("invitation already resolved")
	ErrAlreadyLinked      = errors.New("escort already belongs to an agency")
	ErrSeatLimitReached   = errors.New("agency seat limit reached")
	ErrNotAnEscort        = errors.New("target user is not an escort")
)

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	InvitationRevoked  = "revoked"
)

// Invitation is an agency's offer to manage an escort profile. The escort
// must accept before the agency gains any control.
type Invitation struct {
	ID         string     `json:"id"`
	AgencyID   string     `json:"agency_id"`
	EscortID   string     `json:"escort_id"`
	Message    string     `json:"message,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

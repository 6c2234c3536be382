package agency

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"escort-directory/internal/billing"
	"escort-directory/internal/profiles"
)

// Service manages the agency-escort relationship. Escorts join an agency
// only through an accepted invitation, and the agency's subscription caps
// how many escorts it can manage.
type Service struct {
	db       *sql.DB
	profiles *profiles.Service
	billing  *billing.Service
}

func NewService(db *sql.DB, profileService *profiles.Service, billingService *billing.Service) *Service {
	return &Service{
		db:       db,
		profiles: profileService,
		billing:  billingService,
	}
}

// Invite creates a pending invitation from an agency to an escort.
func (s *Service) Invite(ctx context.Context, agencyID, escortID, message string) (*Invitation, error) {
	escort, err := s.profiles.GetProfile(ctx, escortID)
	if err != nil {
		return nil, err
	}
	if escort.Role != profiles.RoleEscort {
		return nil, ErrNotAnEscort
	}
	if escort.AgencyID != nil {
		return nil, ErrAlreadyLinked
	}

	if err := s.checkSeats(ctx, agencyID); err != nil {
		return nil, err
	}

	inv := &Invitation{
		ID:        uuid.New().String(),
		AgencyID:  agencyID,
		EscortID:  escortID,
		Message:   message,
		Status:    InvitationPending,
		CreatedAt: time.Now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO escort_invitations (id, agency_id, escort_id, message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.ID, inv.AgencyID, inv.EscortID, inv.Message, inv.Status, inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return inv, nil
}

// GetInvitation loads one invitation by ID.
func (s *Service) GetInvitation(ctx context.Context, id string) (*Invitation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, agency_id, escort_id, message, status, created_at, resolved_at
		 FROM escort_invitations WHERE id = $1`, id)

	return scanInvitation(row)
}

// ListForEscort returns the escort's pending invitations.
func (s *Service) ListForEscort(ctx context.Context, escortID string) ([]*Invitation, error) {
	return s.listInvitations(ctx,
		`SELECT id, agency_id, escort_id, message, status, created_at, resolved_at
		 FROM escort_invitations
		 WHERE escort_id = $1 AND status = 'pending'
		 ORDER BY created_at DESC`, escortID)
}

// ListForAgency returns all invitations the agency has sent.
func (s *Service) ListForAgency(ctx context.Context, agencyID string) ([]*Invitation, error) {
	return s.listInvitations(ctx,
		`SELECT id, agency_id, escort_id, message, status, created_at, resolved_at
		 FROM escort_invitations
		 WHERE agency_id = $1
		 ORDER BY created_at DESC`, agencyID)
}

// Accept resolves a pending invitation and links the escort to the agency.
// The seat limit is re-checked at acceptance time since the agency's roster
// may have grown since the invite was sent.
func (s *Service) Accept(ctx context.Context, invitationID, escortID string) error {
	inv, err := s.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.EscortID != escortID {
		return ErrInvitationNotFound
	}
	if inv.Status != InvitationPending {
		return ErrInvitationClosed
	}

	escort, err := s.profiles.GetProfile(ctx, escortID)
	if err != nil {
		return err
	}
	if escort.AgencyID != nil {
		return ErrAlreadyLinked
	}

	if err := s.checkSeats(ctx, inv.AgencyID); err != nil {
		return err
	}

	if err := s.resolveInvitation(ctx, invitationID, InvitationAccepted); err != nil {
		return err
	}

	return s.profiles.SetAgency(ctx, escortID, &inv.AgencyID)
}

// Decline resolves a pending invitation without linking.
func (s *Service) Decline(ctx context.Context, invitationID, escortID string) error {
	inv, err := s.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.EscortID != escortID {
		return ErrInvitationNotFound
	}
	if inv.Status != InvitationPending {
		return ErrInvitationClosed
	}

	return s.resolveInvitation(ctx, invitationID, InvitationDeclined)
}

// Revoke lets the agency withdraw a pending invitation.
func (s *Service) Revoke(ctx context.Context, invitationID, agencyID string) error {
	inv, err := s.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.AgencyID != agencyID {
		return ErrInvitationNotFound
	}
	if inv.Status != InvitationPending {
		return ErrInvitationClosed
	}

	return s.resolveInvitation(ctx, invitationID, InvitationRevoked)
}

// Roster returns the escorts currently managed by the agency.
func (s *Service) Roster(ctx context.Context, agencyID string) ([]*profiles.Profile, error) {
	return s.profiles.ListByAgency(ctx, agencyID)
}

// Remove unlinks an escort from the agency.
func (s *Service) Remove(ctx context.Context, agencyID, escortID string) error {
	escort, err := s.profiles.GetProfile(ctx, escortID)
	if err != nil {
		return err
	}
	if escort.AgencyID == nil || *escort.AgencyID != agencyID {
		return ErrInvitationNotFound
	}

	return s.profiles.SetAgency(ctx, escortID, nil)
}

// Leave lets an escort detach from their agency.
func (s *Service) Leave(ctx context.Context, escortID string) error {
	return s.profiles.SetAgency(ctx, escortID, nil)
}

func (s *Service) checkSeats(ctx context.Context, agencyID string) error {
	limit := s.billing.SeatLimit(ctx, agencyID)

	roster, err := s.profiles.ListByAgency(ctx, agencyID)
	if err != nil {
		return err
	}
	if len(roster) >= limit {
		return ErrSeatLimitReached
	}
	return nil
}

func (s *Service) resolveInvitation(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE escort_invitations SET status = $1, resolved_at = NOW()
		 WHERE id = $2 AND status = 'pending'`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to resolve invitation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInvitationClosed
	}
	return nil
}

func (s *Service) listInvitations(ctx context.Context, query string, arg interface{}) ([]*Invitation, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

func scanInvitation(row interface{ Scan(...interface{}) error }) (*Invitation, error) {
	var inv Invitation
	err := row.Scan(&inv.ID, &inv.AgencyID, &inv.EscortID, &inv.Message,
		&inv.Status, &inv.CreatedAt, &inv.ResolvedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}
	return &inv, nil
}

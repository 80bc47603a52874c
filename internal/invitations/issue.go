package invitations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"

	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var (
	roles = set.From([]string{RoleMember, RoleAdmin})
)

// IssueRequest is what an inviter fills in. Message is shown to the invitee
// out of band and never stored.
type IssueRequest struct {
	Email   string
	Role    string
	Message string
}

func normalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return RoleMember, nil
	}
	if !roles.Contains(role) {
		return "", fmt.Errorf("%w: unknown role %q", ErrBadRequest, role)
	}
	return role, nil
}

// Issue creates a pending invitation owned by inviterID. Generated codes that
// collide with existing ones are regenerated and the insert retried.
func (s *Service) Issue(ctx context.Context, inviterID string, req IssueRequest) (*models.Invitation, error) {
	inviterID = strings.TrimSpace(inviterID)
	if inviterID == "" {
		return nil, ErrUnauthorized
	}

	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		if err := checkmail.ValidateFormat(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email format", ErrBadRequest)
		}
	}

	if req.Message != "" {
		logger.Debug().Str("invited_by", inviterID).Int("message_len", len(req.Message)).Msg("Invitation message is not stored")
	}

	var lastErr error
	for attempt := 1; attempt <= s.createAttempts; attempt++ {
		invitation, err := s.newInvitation(inviterID, email, role, s.clock())
		if err != nil {
			return nil, fmt.Errorf("%w: generate codes: %w", ErrCreationFailed, err)
		}

		err = storage.CreateInvitation(ctx, s.db, invitation)
		if err == nil {
			logger.Info().
				Str("invitation_id", invitation.ID).
				Str("invited_by", inviterID).
				Str("role", role).
				Msg("Invitation created")
			return invitation, nil
		}

		if !storage.IsUniqueConstraintError(err) {
			logger.Error().Err(err).Str("invited_by", inviterID).Msg("Failed to create invitation")
			return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("Invitation code collision, regenerating")
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrCreationFailed, lastErr)
}

const maxDistinctCodeTries = 3

func (s *Service) newInvitation(inviterID, email, role string, now time.Time) (*models.Invitation, error) {
	token, err := s.newCode(now)
	if err != nil {
		return nil, err
	}

	var linkCode string
	for i := 0; i < maxDistinctCodeTries; i++ {
		linkCode, err = s.newCode(now)
		if err != nil {
			return nil, err
		}
		if linkCode != token {
			break
		}
	}
	if linkCode == token {
		return nil, errors.New("link code equals invitation token")
	}

	return &models.Invitation{
		ID:              uuid.NewString(),
		InvitedBy:       inviterID,
		Email:           email,
		InvitationToken: token,
		LinkCode:        linkCode,
		Role:            role,
		Status:          models.InvitationStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.expiry),
	}, nil
}

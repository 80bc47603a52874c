package invitations

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

// Resolved is a usable invitation with the inviter's display fields.
type Resolved struct {
	Invitation     *models.Invitation
	InviterName    string
	InviterCompany string
}

// Validate resolves a code to a pending, unexpired invitation. Unknown,
// expired and accepted codes all fail with ErrInvalidOrExpired so a stale
// code tells nothing about the invitation state. Validate never writes.
func (s *Service) Validate(ctx context.Context, lookup Lookup) (*Resolved, error) {
	field, code, err := lookup.resolve()
	if err != nil {
		return nil, err
	}

	invitation, err := s.findValid(ctx, field, code)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{Invitation: invitation}

	inviter, err := storage.GetUserByID(ctx, s.db, invitation.InvitedBy)
	switch {
	case err == nil:
		resolved.InviterName = inviter.Name()
		resolved.InviterCompany = inviter.CompanyName
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Warn().Str("invited_by", invitation.InvitedBy).Msg("Inviter profile not found")
	default:
		return nil, fmt.Errorf("%w: get inviter: %w", ErrInternal, err)
	}

	return resolved, nil
}

func (s *Service) findValid(ctx context.Context, field storage.CodeField, code string) (*models.Invitation, error) {
	invitation, err := storage.GetValidInvitation(ctx, s.db, field, code, s.clock())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("%w: find invitation: %w", ErrInternal, err)
	}
	return invitation, nil
}

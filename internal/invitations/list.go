package invitations

import (
	"context"
	"fmt"

	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

// ListIssued returns invitations created by inviterID, newest first.
func (s *Service) ListIssued(ctx context.Context, inviterID string) ([]models.Invitation, error) {
	if inviterID == "" {
		return nil, ErrUnauthorized
	}
	invitations, err := storage.ListInvitationsByInviter(ctx, s.db, inviterID)
	if err != nil {
		return nil, fmt.Errorf("%w: list invitations: %w", ErrInternal, err)
	}
	return invitations, nil
}

// ListMembers returns the memberships of the team owned by ownerID.
func (s *Service) ListMembers(ctx context.Context, ownerID string) ([]models.Membership, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	members, err := storage.ListMembershipsByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list members: %w", ErrInternal, err)
	}
	return members, nil
}

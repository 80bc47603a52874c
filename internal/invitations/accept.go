package invitations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

// AcceptResult reports a successful join. AlreadyMember is set when the user
// was on the team before this call, the invitation is left untouched then.
type AcceptResult struct {
	Invitation    *models.Invitation
	AlreadyMember bool
}

// Accept consumes the invitation identified by lookup on behalf of userID and
// creates the membership. The invitation is re-resolved here, a previously
// validated copy is never trusted.
//
// The pending -> accepted flip is a conditional update; when two requests
// race only the one that changed the row creates the membership.
func (s *Service) Accept(ctx context.Context, lookup Lookup, userID string) (*AcceptResult, error) {
	field, code, err := lookup.resolve()
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrBadRequest)
	}

	// 1. Re-resolve.
	invitation, err := s.findValid(ctx, field, code)
	if errors.Is(err, ErrInvalidOrExpired) {
		return s.acceptAgain(ctx, field, code, userID)
	}
	if err != nil {
		return nil, err
	}

	// The owner is on their own team already.
	if invitation.InvitedBy == userID {
		return &AcceptResult{Invitation: invitation, AlreadyMember: true}, nil
	}

	// 2. Existing membership.
	member, err := s.isMember(ctx, invitation.InvitedBy, userID)
	if err != nil {
		return nil, err
	}
	if member {
		logger.Info().
			Str("invitation_id", invitation.ID).
			Str("user_id", userID).
			Msg("User already on team, invitation left pending")
		return &AcceptResult{Invitation: invitation, AlreadyMember: true}, nil
	}

	// 3. Consume.
	now := s.clock()
	n, err := storage.MarkInvitationAccepted(ctx, s.db, invitation.ID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: mark accepted: %w", ErrInternal, err)
	}
	if n == 0 {
		// Lost the race.
		member, err := s.isMember(ctx, invitation.InvitedBy, userID)
		if err != nil {
			return nil, err
		}
		if member {
			return &AcceptResult{Invitation: invitation, AlreadyMember: true}, nil
		}
		return nil, ErrInvalidOrExpired
	}
	invitation.Status = models.InvitationStatusAccepted
	invitation.AcceptedAt = &now
	invitation.AcceptedBy = userID

	// 4. Membership.
	membership := &models.Membership{
		TeamOwnerID: invitation.InvitedBy,
		MemberID:    userID,
		Role:        invitation.Role,
		InvitedBy:   invitation.InvitedBy,
		JoinedAt:    now,
	}
	if err := storage.CreateMembership(ctx, s.db, membership); err != nil {
		if !storage.IsUniqueConstraintError(err) {
			logger.Error().Err(err).Str("invitation_id", invitation.ID).Str("user_id", userID).Msg("Failed to create membership for accepted invitation")
			return nil, fmt.Errorf("%w: create membership: %w", ErrInternal, err)
		}
		logger.Warn().Err(err).Str("invitation_id", invitation.ID).Str("user_id", userID).Msg("Membership already exists")
	}

	// 5. Primary team, best effort.
	s.updateTeamAffiliation(ctx, userID, invitation.InvitedBy)

	logger.Info().
		Str("invitation_id", invitation.ID).
		Str("team_owner_id", invitation.InvitedBy).
		Str("user_id", userID).
		Str("role", invitation.Role).
		Msg("Invitation accepted")

	return &AcceptResult{Invitation: invitation}, nil
}

// acceptAgain handles a code that no longer validates. Only the user who
// already consumed it, and whose membership exists, gets a success back.
func (s *Service) acceptAgain(ctx context.Context, field storage.CodeField, code, userID string) (*AcceptResult, error) {
	invitation, err := storage.GetInvitationByCode(ctx, s.db, field, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("%w: find invitation: %w", ErrInternal, err)
	}

	if invitation.Status != models.InvitationStatusAccepted || invitation.AcceptedBy != userID {
		return nil, ErrInvalidOrExpired
	}

	member, err := s.isMember(ctx, invitation.InvitedBy, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrInvalidOrExpired
	}

	return &AcceptResult{Invitation: invitation, AlreadyMember: true}, nil
}

func (s *Service) isMember(ctx context.Context, teamOwnerID, userID string) (bool, error) {
	member, err := storage.MembershipExists(ctx, s.db, teamOwnerID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: check membership: %w", ErrInternal, err)
	}
	return member, nil
}

// UserExists reports whether a user row exists for userID.
func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	_, err := storage.GetUserByID(ctx, s.db, strings.TrimSpace(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	return true, nil
}

// updateTeamAffiliation never fails the join, the membership is committed.
func (s *Service) updateTeamAffiliation(ctx context.Context, userID, teamOwnerID string) {
	n, err := storage.UpdateUserTeamOwner(ctx, s.db, userID, teamOwnerID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update user team")
		return
	}
	if n == 0 {
		logger.Warn().Str("user_id", userID).Msg("User profile not found, team not updated")
	}
}

package session

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamjoin/internal/invitations"
)

// carriedLookup builds the lookup for an invitation riding along a sign-in.
// The join page hands its link code over as "invitation", in the query or
// the posted body.
func carriedLookup(c *gin.Context, invitationToken, linkCode, invitation string) invitations.Lookup {
	if linkCode == "" {
		linkCode = invitation
	}
	if linkCode == "" {
		linkCode = c.Query("invitation")
	}
	return invitations.Lookup{
		InvitationToken: invitationToken,
		LinkCode:        linkCode,
	}
}

// joinCarriedInvitation accepts an invitation brought along through sign-up
// or sign-in and reports whether the user is on the team afterwards. It never
// fails the sign-in, errors are only logged.
func (s *Sessions) joinCarriedInvitation(ctx context.Context, lookup invitations.Lookup, userID string) bool {
	if strings.TrimSpace(lookup.InvitationToken) == "" && strings.TrimSpace(lookup.LinkCode) == "" {
		return false
	}

	_, err := s.invitations.Accept(ctx, lookup, userID)
	if err != nil {
		ev := logger.Warn()
		if !errors.Is(err, invitations.ErrInvalidOrExpired) {
			ev = logger.Error()
		}
		ev.Err(err).Str("user_id", userID).Msg("Failed to accept carried invitation")
		return false
	}

	return true
}

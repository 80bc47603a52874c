package teamapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

type lookupParams struct {
	InvitationToken string `json:"invitationToken"`
	LinkCode        string `json:"linkCode"`
}

func (p *lookupParams) lookup() invitations.Lookup {
	return invitations.Lookup{
		InvitationToken: p.InvitationToken,
		LinkCode:        p.LinkCode,
	}
}

type validateResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	InviterName    string `json:"inviterName"`
	InviterCompany string `json:"inviterCompany"`
}

func (a *TeamAPI) handleValidate(c *gin.Context) {
	params := &lookupParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resolved, err := a.invitations.Validate(c.Request.Context(), params.lookup())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &validateResponse{
		ID:             resolved.Invitation.ID,
		Email:          resolved.Invitation.Email,
		Role:           resolved.Invitation.Role,
		InviterName:    resolved.InviterName,
		InviterCompany: resolved.InviterCompany,
	})
}

type acceptParams struct {
	lookupParams
	UserID string `json:"userId"`
}

type acceptResponse struct {
	Success       bool `json:"success"`
	AlreadyMember bool `json:"alreadyMember"`
}

// handleAccept joins userId to the inviter's team. A signed in caller may
// omit userId but can not accept on behalf of someone else. Without a
// session, userId must name a registered user.
func (a *TeamAPI) handleAccept(c *gin.Context) {
	params := &acceptParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID := params.UserID
	if sessionUser := session.UserID(c); sessionUser != "" {
		if userID != "" && userID != sessionUser {
			firewall.MarkSuspicious(c, "accept for another user")
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		userID = sessionUser
	} else if userID != "" {
		exists, err := a.invitations.UserExists(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !exists {
			firewall.MarkSuspicious(c, "accept for unknown user")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown user"})
			return
		}
	}

	res, err := a.invitations.Accept(c.Request.Context(), params.lookup(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &acceptResponse{
		Success:       true,
		AlreadyMember: res.AlreadyMember,
	})
}

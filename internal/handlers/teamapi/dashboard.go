package teamapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
	"github.com/charleshuang3/teamjoin/internal/models"
)

type invitationResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	InvitationToken string     `json:"invitation_token"`
	LinkCode        string     `json:"link_code"`
	ShareURL        string     `json:"share_url"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy      string     `json:"accepted_by,omitempty"`
}

const (
	// statusExpired is only reported, never stored.
	statusExpired = "expired"
)

func (a *TeamAPI) toInvitationResponse(inv *models.Invitation, now time.Time) *invitationResponse {
	status := inv.Status
	if status == models.InvitationStatusPending && !inv.IsValid(now) {
		status = statusExpired
	}

	return &invitationResponse{
		ID:              inv.ID,
		Email:           inv.Email,
		Role:            inv.Role,
		Status:          status,
		InvitationToken: inv.InvitationToken,
		LinkCode:        inv.LinkCode,
		ShareURL:        invitations.ShareURL(a.config.Origin, inv.LinkCode),
		CreatedAt:       inv.CreatedAt,
		ExpiresAt:       inv.ExpiresAt,
		AcceptedAt:      inv.AcceptedAt,
		AcceptedBy:      inv.AcceptedBy,
	}
}

type createInvitationParams struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

func (a *TeamAPI) handleCreateInvitation(c *gin.Context) {
	params := &createInvitationParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	inv, err := a.invitations.Issue(c.Request.Context(), session.UserID(c), invitations.IssueRequest{
		Email:   params.Email,
		Role:    params.Role,
		Message: params.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a.toInvitationResponse(inv, time.Now()))
}

func (a *TeamAPI) handleListInvitations(c *gin.Context) {
	list, err := a.invitations.ListIssued(c.Request.Context(), session.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	resp := make([]*invitationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, a.toInvitationResponse(&list[i], now))
	}
	c.JSON(http.StatusOK, gin.H{"invitations": resp})
}

type memberResponse struct {
	MemberID  string    `json:"member_id"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invited_by"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (a *TeamAPI) handleListMembers(c *gin.Context) {
	members, err := a.invitations.ListMembers(c.Request.Context(), session.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResponse{
			MemberID:  m.MemberID,
			Role:      m.Role,
			InvitedBy: m.InvitedBy,
			JoinedAt:  m.JoinedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"members": resp})
}

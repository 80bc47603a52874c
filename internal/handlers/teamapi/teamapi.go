// Package teamapi exposes the invitation lifecycle over HTTP: the team
// dashboard API, the public validate and accept endpoints, and the join page
// behind shared links.
package teamapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

var (
	logger = log.With().Str("component", "teamapi").Logger()
)

type TeamAPI struct {
	invitations *invitations.Service
	sessions    *session.Sessions
	config      *invitations.Config
}

func New(inv *invitations.Service, sessions *session.Sessions, config *invitations.Config) *TeamAPI {
	return &TeamAPI{
		invitations: inv,
		sessions:    sessions,
		config:      config,
	}
}

func (a *TeamAPI) RegisterHandlers(rg *gin.RouterGroup) {
	api := rg.Group("/api")
	{
		// Team dashboard, signed in only
		authed := api.Group("", a.sessions.RequireUser())
		authed.POST("/invitations", a.handleCreateInvitation)
		authed.GET("/invitations", a.handleListInvitations)
		authed.GET("/team/members", a.handleListMembers)

		// Public, called by the sign-up pages with a carried code
		public := api.Group("", a.sessions.OptionalUser())
		public.POST("/invitations/validate", a.handleValidate)
		public.POST("/invitations/accept", a.handleAccept)
	}

	rg.GET("/join/:code", a.sessions.OptionalUser(), a.joinPage)
}

// respondError maps invitation errors to a status code with a generic message.
// Unknown or stale codes count against the caller's IP.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, invitations.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, invitations.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, invitations.ErrInvalidOrExpired):
		firewall.MarkSuspicious(c, "invalid invitation code")
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or expired invitation"})
	case errors.Is(err, invitations.ErrCreationFailed):
		logger.Error().Err(err).Msg("Invitation creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Invitation request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// Package session signs users up and in, keeps them signed in with a JWT
// cookie, and joins them to a team when an invitation code rides along.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/invitations"
	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

var (
	logger = log.With().Str("component", "session").Logger()
)

const (
	keyUserID = "SESSION_USER_ID"
)

type Sessions struct {
	config       *SessionConfig
	db           *gormw.DB
	invitations  *invitations.Service
	dashboardURL string

	authStateStorage *storage.AuthStateStorage

	now func() time.Time
}

func New(config *SessionConfig, db *gormw.DB, inv *invitations.Service, dashboardURL string) *Sessions {
	return &Sessions{
		config:           config,
		db:               db,
		invitations:      inv,
		dashboardURL:     dashboardURL,
		authStateStorage: storage.NewAuthStateStorage(),
		now:              time.Now,
	}
}

func (s *Sessions) RegisterHandlers(rg *gin.RouterGroup) {
	authRoutes := rg.Group("/auth")
	{
		authRoutes.GET("/signup", s.handleSignUpPage)
		authRoutes.POST("/signup", s.handleSignUp)
		authRoutes.GET("/signin", s.handleSignInPage)
		authRoutes.POST("/signin", s.handleSignIn)
		authRoutes.POST("/signout", s.handleSignOut)

		if s.config.SSO.Google.enabled() {
			authRoutes.GET("/google", s.handleGoogleLogin)
			authRoutes.GET("/google/callback", s.handleGoogleCallback)
		}
	}
}

func (s *Sessions) GoogleEnabled() bool {
	return s.config.SSO.Google.enabled()
}

// OptionalUser attaches the signed in user id when the request carries a
// valid session, and lets anonymous requests through.
func (s *Sessions) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := s.tokenFromRequest(c); err == nil {
			if userID, err := s.verifyToken(raw); err == nil {
				c.Set(keyUserID, userID)
			} else {
				logger.Debug().Err(err).Msg("Ignoring invalid session token")
			}
		}
		c.Next()
	}
}

// RequireUser rejects requests without a valid session.
func (s *Sessions) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := s.tokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := s.verifyToken(raw)
		if err != nil {
			logMayHack(c, "invalid session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(keyUserID, userID)
		c.Next()
	}
}

// UserID returns the user set by OptionalUser or RequireUser, or "".
func UserID(c *gin.Context) string {
	return c.GetString(keyUserID)
}

type signedInResponse struct {
	Token      string `json:"token"`
	UserID     string `json:"user_id"`
	JoinedTeam bool   `json:"joined_team"`
}

// startSession signs a token for user and sets the session cookie.
func (s *Sessions) startSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := s.signToken(user.ID, s.now())
	if err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign session token")
		c.String(http.StatusInternalServerError, "Failed to start session")
		return "", false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.CookieName, token, int(s.config.sessionTTL().Seconds()), "/", "", s.config.CookieSecure, true)
	return token, true
}

func (s *Sessions) handleSignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.CookieName, "", -1, "/", "", s.config.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamjoin/internal/invitations"
	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

type handleSignUpParams struct {
	Email       string `form:"email" json:"email" binding:"required"`
	Password    string `form:"password" json:"password" binding:"required"`
	DisplayName string `form:"display_name" json:"display_name"`
	CompanyName string `form:"company_name" json:"company_name"`

	// optional invitation carried through sign-up
	InvitationToken string `form:"invitation_token" json:"invitation_token"`
	LinkCode        string `form:"link_code" json:"link_code"`
	Invitation      string `form:"invitation" json:"invitation"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Sessions) handleSignUp(c *gin.Context) {
	params := &handleSignUpParams{}
	if err := c.ShouldBind(params); err != nil {
		responseErrorAndLogMaybeHack(c, http.StatusBadRequest, "Missing required parameters: "+err.Error())
		return
	}

	email := normalizeEmail(params.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		c.String(http.StatusBadRequest, "Invalid email format.")
		return
	}

	if err := validatePassword(params.Password); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	_, err := storage.GetUserByEmail(ctx, s.db, email)
	if err == nil {
		c.String(http.StatusConflict, "Email already registered.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		c.String(http.StatusInternalServerError, "Database error.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.String(http.StatusInternalServerError, "Error processing registration.")
		return
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: string(hashedPassword),
		DisplayName:    strings.TrimSpace(params.DisplayName),
		CompanyName:    strings.TrimSpace(params.CompanyName),
	}
	if err := storage.CreateUser(ctx, s.db, user); err != nil {
		if storage.IsUniqueConstraintError(err) {
			c.String(http.StatusConflict, "Email already registered.")
			return
		}
		logger.Error().Err(err).Msg("Failed to create user")
		c.String(http.StatusInternalServerError, "Failed to create user.")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered")

	lookup := carriedLookup(c, params.InvitationToken, params.LinkCode, params.Invitation)
	s.signedIn(c, user, lookup, http.StatusCreated)
}

type handleSignInParams struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`

	InvitationToken string `form:"invitation_token" json:"invitation_token"`
	LinkCode        string `form:"link_code" json:"link_code"`
	Invitation      string `form:"invitation" json:"invitation"`
}

func (s *Sessions) handleSignIn(c *gin.Context) {
	params := &handleSignInParams{}
	if err := c.ShouldBind(params); err != nil {
		c.String(http.StatusBadRequest, "Missing required parameters")
		return
	}

	user, err := storage.GetUserByEmail(c.Request.Context(), s.db, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Generic message for security reasons
			responseErrorAndLogMaybeHack(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logger.Error().Err(err).Msg("Database error during sign in")
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	if !user.CheckPassword(params.Password) {
		responseErrorAndLogMaybeHack(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	lookup := carriedLookup(c, params.InvitationToken, params.LinkCode, params.Invitation)
	s.signedIn(c, user, lookup, http.StatusOK)
}

func (s *Sessions) signedIn(c *gin.Context, user *models.User, lookup invitations.Lookup, status int) {
	joined := s.joinCarriedInvitation(c.Request.Context(), lookup, user.ID)

	token, ok := s.startSession(c, user)
	if !ok {
		return
	}

	// forms posted from the sign-in pages go on to the dashboard
	if c.NegotiateFormat(binding.MIMEJSON, binding.MIMEHTML) == binding.MIMEHTML {
		c.Redirect(http.StatusSeeOther, s.dashboardURL)
		return
	}

	c.JSON(status, &signedInResponse{
		Token:      token,
		UserID:     user.ID,
		JoinedTeam: joined,
	})
}

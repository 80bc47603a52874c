package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamjoin/internal/invitations"
	"github.com/charleshuang3/teamjoin/internal/models"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

var (
	oauth2RequestClient = http.DefaultClient
)

// localRedirect only allows same-site paths after sign-in.
func localRedirect(uri string) bool {
	return strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "//") && !strings.HasPrefix(uri, "/\\")
}

// handleGoogleLogin sends the browser to Google. An invitation link code and a
// post-login redirect may be carried in the query and survive the round trip
// in the auth state storage.
func (s *Sessions) handleGoogleLogin(c *gin.Context) {
	redirect := c.Query("redirect")
	if redirect != "" && !localRedirect(redirect) {
		responseErrorAndLogMaybeHack(c, http.StatusBadRequest, "Invalid redirect")
		return
	}

	state := uuid.NewString()
	s.authStateStorage.Set(state, &storage.AuthState{
		InvitationCode: strings.TrimSpace(c.Query("invitation")),
		RedirectURI:    redirect,
	})

	c.Redirect(http.StatusFound, s.config.SSO.Google.oauth2Config().AuthCodeURL(state))
}

type handleGoogleCallbackParams struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

func (s *Sessions) handleGoogleCallback(c *gin.Context) {
	params := handleGoogleCallbackParams{}
	if err := c.ShouldBind(&params); err != nil {
		responseErrorAndLogMaybeHack(c, http.StatusBadRequest, "Missing required parameters")
		return
	}

	// 1. Check state in storage
	authState, ok := s.authStateStorage.Get(params.State)
	if !ok {
		responseErrorAndLogMaybeHack(c, http.StatusBadRequest, "Invalid state")
		return
	}
	// Remove state after use to prevent replay attacks
	s.authStateStorage.Delete(params.State)

	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, oauth2RequestClient)

	// 2. Token exchange
	tok, err := s.config.SSO.Google.oauth2Config().Exchange(ctx, params.Code)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to exchange token with Google")
		c.String(http.StatusBadRequest, "Token exchange failed")
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		logger.Error().Msg("No id_token field in oauth2 token")
		c.String(http.StatusBadRequest, "Invalid token response")
		return
	}

	// No need to verify the id token because we requested the token directly from Google.

	// 3. Extract subject, email and name from id token
	idToken, err := jwt.ParseInsecure([]byte(rawIDToken))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse ID token")
		c.String(http.StatusBadRequest, "Invalid ID token")
		return
	}

	googleID, _ := idToken.Subject()

	var email, name string
	if err := idToken.Get("email", &email); err != nil || email == "" {
		logger.Error().Err(err).Msg("Failed to extract email from ID token")
		c.String(http.StatusBadRequest, "Invalid ID token claims")
		return
	}
	// name is optional
	_ = idToken.Get("name", &name)

	// 4. Find or create the user
	user, err := s.findOrCreateGoogleUser(c.Request.Context(), normalizeEmail(email), name, googleID)
	if err != nil {
		logger.Error().Err(err).Msg("Database error during Google login")
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	// 5. Carried invitation, then session
	s.joinCarriedInvitation(c.Request.Context(), invitations.Lookup{LinkCode: authState.InvitationCode}, user.ID)

	if _, ok := s.startSession(c, user); !ok {
		return
	}

	redirect := authState.RedirectURI
	if redirect == "" {
		redirect = s.dashboardURL
	}
	c.Redirect(http.StatusFound, redirect)
}

func (s *Sessions) findOrCreateGoogleUser(ctx context.Context, email, name, googleID string) (*models.User, error) {
	user, err := storage.GetUserByEmail(ctx, s.db, email)
	if err == nil {
		updated := false
		if user.GoogleID != googleID {
			user.GoogleID = googleID
			updated = true
		}
		if user.DisplayName == "" && name != "" {
			user.DisplayName = name
			updated = true
		}
		if updated {
			if err := storage.SaveUser(ctx, s.db, user); err != nil {
				logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update user data")
			}
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:          uuid.NewString(),
		Email:       email,
		GoogleID:    googleID,
		DisplayName: name,
	}
	if err := storage.CreateUser(ctx, s.db, user); err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Msg("User registered with Google")
	return user, nil
}

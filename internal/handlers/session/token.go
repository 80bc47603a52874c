package session

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	errNoSession = errors.New("no session token")
)

func (s *Sessions) signToken(userID string, now time.Time) (string, error) {
	tok, err := jwt.NewBuilder().
		Issuer(s.config.Issuer).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(s.config.sessionTTL())).
		Build()
	if err != nil {
		return "", err
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte(s.config.JWTSecret)))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// verifyToken checks signature, expiry and issuer and returns the user id.
func (s *Sessions) verifyToken(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256(), []byte(s.config.JWTSecret)),
		jwt.WithIssuer(s.config.Issuer),
	)
	if err != nil {
		return "", err
	}

	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return "", errors.New("session token without subject")
	}
	return sub, nil
}

// tokenFromRequest reads a bearer token, falling back to the session cookie.
func (s *Sessions) tokenFromRequest(c *gin.Context) (string, error) {
	if h := c.GetHeader("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || raw == "" {
			return "", errNoSession
		}
		return raw, nil
	}

	raw, err := c.Cookie(s.config.CookieName)
	if err != nil || raw == "" {
		return "", errNoSession
	}
	return raw, nil
}

package session

import (
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleLogin struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

var (
	// tests use this to override to test server
	tokenExchangeEndpoint string
)

func (g *GoogleLogin) enabled() bool {
	return g.ClientID != ""
}

func (g *GoogleLogin) oauth2Config() *oauth2.Config {
	endpoints := google.Endpoint
	if tokenExchangeEndpoint != "" {
		endpoints.TokenURL = tokenExchangeEndpoint
	}

	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURI,
		Scopes:       []string{"profile", "email", "openid"},
		Endpoint:     endpoints,
	}
}

type SSOConfig struct {
	Google GoogleLogin `yaml:"google"`
}

const (
	defaultSessionTTLHours = 24 * 7
	defaultCookieName      = "teamjoin_session"
	minJWTSecretLength     = 32
)

type SessionConfig struct {
	// JWTSecret signs session tokens (HS256).
	JWTSecret string `yaml:"jwt_secret"`

	// Issuer is put into and checked on every session token.
	Issuer string `yaml:"issuer"`

	SessionTTLHours uint `yaml:"session_ttl_hours"`

	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`

	// SSO is optional, Google sign-in is off without a client id.
	SSO SSOConfig `yaml:"sso"`
}

func (c *SessionConfig) Validate() {
	if len(c.JWTSecret) < minJWTSecretLength {
		logger.Fatal().Msgf("SessionConfig: JWTSecret must be at least %d bytes", minJWTSecretLength)
	}
	if c.Issuer == "" {
		logger.Fatal().Msg("SessionConfig: Issuer is missing")
	}
	if c.SSO.Google.enabled() {
		if c.SSO.Google.ClientSecret == "" {
			logger.Fatal().Msg("SessionConfig: Google ClientSecret is missing")
		}
		if c.SSO.Google.RedirectURI == "" {
			logger.Fatal().Msg("SessionConfig: Google RedirectURI is missing")
		}
	}
	c.applyDefaults()
}

func (c *SessionConfig) applyDefaults() {
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = defaultSessionTTLHours
	}
	if c.CookieName == "" {
		c.CookieName = defaultCookieName
	}
}

func (c *SessionConfig) sessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

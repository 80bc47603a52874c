package invitations

import "time"

type Config struct {
	// Origin is the public base URL join links are built on.
	Origin string `yaml:"origin"`

	// DashboardURL is where users land after joining a team.
	DashboardURL string `yaml:"dashboard_url"`

	// SignInURL and SignUpURL are the pages the join page sends anonymous
	// visitors to, with ?invitation=<link code> appended.
	SignInURL string `yaml:"sign_in_url"`
	SignUpURL string `yaml:"sign_up_url"`

	// ExpiryHours is the lifetime of new invitations, 7 days by default.
	ExpiryHours uint `yaml:"expiry_hours"`

	// CreateAttempts bounds inserts retried after a code collision.
	CreateAttempts uint `yaml:"create_attempts"`
}

func (c *Config) Validate() {
	if c.Origin == "" {
		logger.Fatal().Msg("InvitationsConfig: Origin is missing")
	}
	c.applyDefaults()
}

func (c *Config) applyDefaults() {
	if c.DashboardURL == "" {
		c.DashboardURL = "/dashboard"
	}
	if c.SignInURL == "" {
		c.SignInURL = "/auth/signin"
	}
	if c.SignUpURL == "" {
		c.SignUpURL = "/auth/signup"
	}
	if c.ExpiryHours == 0 {
		c.ExpiryHours = uint(defaultExpiry / time.Hour)
	}
	if c.CreateAttempts == 0 {
		c.CreateAttempts = defaultCreateAttempts
	}
}

// Options turns the config into service options.
func (c *Config) Options() []Option {
	return []Option{
		WithExpiry(time.Duration(c.ExpiryHours) * time.Hour),
		WithCreateAttempts(int(c.CreateAttempts)),
	}
}

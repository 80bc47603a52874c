package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

func writeConfigFile(t *testing.T, data []byte) string {
	t.Helper()

	tmpConfigFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpConfigFile, data, 0644))
	return tmpConfigFile
}

func TestLoadConfigSuccess(t *testing.T) {
	// Sample valid configuration data, every default already filled in
	sampleConfig := &Config{
		Port:    8080,
		GinMode: "debug",
		Auth: session.SessionConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			Issuer:          "https://app.example.com",
			SessionTTLHours: 24,
			CookieName:      "session",
			CookieSecure:    true,
			SSO: session.SSOConfig{
				Google: session.GoogleLogin{
					ClientID:     "testclientid",
					ClientSecret: "testclientsecret",
					RedirectURI:  "https://app.example.com/auth/google/callback",
				},
			},
		},
		Invitations: invitations.Config{
			Origin:         "https://app.example.com",
			DashboardURL:   "/app",
			SignInURL:      "/login",
			SignUpURL:      "/register",
			ExpiryHours:    48,
			CreateAttempts: 5,
		},
		DB: gormw.Config{
			DSN:                  "testdsn",
			DisableAutomaticPing: false,
			MaxOpenConns:         10,
			MaxIdleConns:         5,
			LogLevel:             2, // gormlog.Error
		},
		Firewall: &firewall.FirewallConfig{
			Provider:         "ros",
			ProviderIP:       "192.168.1.1",
			ProviderUser:     "admin",
			ProviderPassword: "password",
			Whitelist:        []string{"192.168.1.1", "192.168.1.2"},
			BanMinutes:       10,
			Forgivable: firewall.ForgivableError{
				DurationInMinute: 10,
				Count:            3,
			},

			CityDBFile:        "/path/to/city.mmdb",
			UpdatedCityDBFile: "/path/to/updated_city.mmdb",
			ASNDBFile:         "/path/to/asn.mmdb",
			UpdatedASNDBFile:  "/path/to/updated_asn.mmdb",
		},
	}

	configData, err := yaml.Marshal(sampleConfig)
	require.NoError(t, err)

	loadedConfig := LoadConfig(writeConfigFile(t, configData))

	assert.NotNil(t, loadedConfig)
	assert.Equal(t, sampleConfig, loadedConfig)
}

func TestLoadConfigDefaults(t *testing.T) {
	configData := []byte(`
port: 8080
gin_mode: release
auth:
  jwt_secret: 0123456789abcdef0123456789abcdef
  issuer: https://app.example.com
invitations:
  origin: https://app.example.com
`)

	cfg := LoadConfig(writeConfigFile(t, configData))

	assert.Nil(t, cfg.Firewall)
	assert.False(t, cfg.Firewall.Enabled())
	assert.Empty(t, cfg.Auth.SSO.Google.ClientID)

	assert.Equal(t, uint(24*7), cfg.Auth.SessionTTLHours)
	assert.Equal(t, "teamjoin_session", cfg.Auth.CookieName)

	assert.Equal(t, "/dashboard", cfg.Invitations.DashboardURL)
	assert.Equal(t, uint(168), cfg.Invitations.ExpiryHours)
	assert.Equal(t, uint(3), cfg.Invitations.CreateAttempts)

	// in-memory sqlite is picked when opening the DB
	assert.Empty(t, cfg.DB.DSN)
}

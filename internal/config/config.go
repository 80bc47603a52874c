package config

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

var (
	logger = log.With().Str("component", "config").Logger()
)

type Config struct {
	Port        uint                  `yaml:"port"`
	GinMode     string                `yaml:"gin_mode"`
	Auth        session.SessionConfig `yaml:"auth"`
	Invitations invitations.Config    `yaml:"invitations"`
	DB          gormw.Config          `yaml:"db"`

	// Firewall is optional.
	Firewall *firewall.FirewallConfig `yaml:"firewall"`
}

func LoadConfig(path string) *Config {
	cfg := &Config{}

	file, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Msgf("failed to open config file: %s", path)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to decode config file")
	}

	cfg.validate()

	return cfg
}

func (c *Config) validate() {
	if c.Port == 0 {
		logger.Fatal().Msg("Port is missing")
	}

	if c.GinMode == "" {
		logger.Fatal().Msg("GinMode is missing")
	}

	c.Auth.Validate()
	c.Invitations.Validate()
	c.Firewall.Validate()
}

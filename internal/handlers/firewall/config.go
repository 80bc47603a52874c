package firewall

import (
	"slices"
)

type ForgivableError struct {
	DurationInMinute uint `yaml:"duration_in_minute"`
	Count            uint `yaml:"count"`
}

// FirewallConfig configures IP banning. The whole section is optional, an
// empty Provider turns the firewall off.
type FirewallConfig struct {
	Provider         string          `yaml:"provider"`
	ProviderIP       string          `yaml:"provider_ip"`
	ProviderUser     string          `yaml:"provider_user"`
	ProviderPassword string          `yaml:"provider_password"`
	ListUUID         string          `yaml:"list_uuid"`
	BanMinutes       uint            `yaml:"ban_minutes"`
	Whitelist        []string        `yaml:"whitelist"`
	Forgivable       ForgivableError `yaml:"forgivable"`

	CityDBFile        string `yaml:"city_db_file"`
	UpdatedCityDBFile string `yaml:"updated_city_db_file"`
	ASNDBFile         string `yaml:"asn_db_file"`
	UpdatedASNDBFile  string `yaml:"updated_asn_db_file"`

	GoogleKeyFile   string `yaml:"google_key_file"`
	GoogleProjectID string `yaml:"google_project_id"`
}

var (
	// "none" only counts errors and logs bans, nothing is blocked.
	supportedProviders = []string{"none", "ros", "opn", "pf"}
)

const (
	defaultBanMinutes       = 10
	defaultDurationInMinute = 10
	defaultCount            = 3
)

func (c *FirewallConfig) Enabled() bool {
	return c != nil && c.Provider != ""
}

func (c *FirewallConfig) Validate() {
	if !c.Enabled() {
		return
	}

	if !slices.Contains(supportedProviders, c.Provider) {
		logger.Fatal().Msgf("FirewallConfig: Provider %s is not supported", c.Provider)
	}

	if c.Provider != "none" {
		if c.ProviderIP == "" {
			logger.Fatal().Msg("FirewallConfig: ProviderIP is missing")
		}
		if c.ProviderUser == "" {
			logger.Fatal().Msg("FirewallConfig: ProviderUser is missing")
		}
		if c.ProviderPassword == "" {
			logger.Fatal().Msg("FirewallConfig: ProviderPassword is missing")
		}
		if c.Provider == "opn" && c.ListUUID == "" {
			logger.Fatal().Msg("FirewallConfig: ListUUID is missing")
		}
	}

	if c.CityDBFile == "" || c.UpdatedCityDBFile == "" {
		logger.Fatal().Msg("FirewallConfig: city geo DB files are missing")
	}
	if c.ASNDBFile == "" || c.UpdatedASNDBFile == "" {
		logger.Fatal().Msg("FirewallConfig: ASN geo DB files are missing")
	}

	c.applyDefault()
}

func (c *FirewallConfig) applyDefault() {
	if c.BanMinutes == 0 {
		c.BanMinutes = defaultBanMinutes
	}
	if c.Forgivable.DurationInMinute == 0 {
		c.Forgivable.DurationInMinute = defaultDurationInMinute
	}
	if c.Forgivable.Count == 0 {
		c.Forgivable.Count = defaultCount
	}
}

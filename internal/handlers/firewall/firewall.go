// Package firewall counts suspicious requests per client IP and bans
// repeat offenders, e.g. clients guessing invitation codes.
package firewall

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	fw "github.com/charleshuang3/firewall"
	"github.com/charleshuang3/firewall/gcplog"
	"github.com/charleshuang3/firewall/ipgeo"
	"github.com/charleshuang3/firewall/opn"
	"github.com/charleshuang3/firewall/pf"
	"github.com/charleshuang3/firewall/ros"
	"github.com/charleshuang3/firewall/zerolog"
)

var (
	logger = log.With().Str("component", "firewall").Logger()
)

const (
	KeyHackingError = "HACKING_ERROR"

	appName = "teamjoin"
)

// MarkSuspicious flags the current request, Middleware counts it against the
// client IP once the handler returns.
func MarkSuspicious(c *gin.Context, reason string) {
	c.Set(KeyHackingError, c.FullPath()+" "+reason)
}

type Firewall struct {
	fw   *fw.Firewall
	conf *FirewallConfig
}

func New(conf *FirewallConfig) *Firewall {
	var firewallProvider fw.IFirewall
	switch conf.Provider {
	case "ros":
		firewallProvider = ros.New(
			conf.ProviderIP, conf.ProviderUser, conf.ProviderPassword)
	case "pf":
		firewallProvider = pf.New(
			conf.ProviderIP, conf.ProviderUser, conf.ProviderPassword)
	case "opn":
		firewallProvider = opn.New(
			conf.ProviderIP, conf.ProviderUser, conf.ProviderPassword, conf.ListUUID)
	default:
		// nil provider, bans are only logged
	}

	var fwlogger fw.ILogger
	if conf.GoogleKeyFile != "" {
		var err error
		fwlogger, err = gcplog.New(conf.GoogleKeyFile, conf.GoogleProjectID, appName)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create gcp logger")
		}
	} else {
		fwlogger = zerolog.New(logger, zlog.InfoLevel, appName)
	}

	mm, err := ipgeo.NewAutoUpdateMMIPGeo(
		conf.CityDBFile,
		conf.UpdatedCityDBFile,
		conf.ASNDBFile,
		conf.UpdatedASNDBFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load ip geo databases")
	}

	return &Firewall{
		fw: fw.New(
			conf.Whitelist,
			firewallProvider,
			fwlogger,
			mm,
			forgivable(conf)),
		conf: conf,
	}
}

func forgivable(conf *FirewallConfig) fw.ForgivableError {
	return fw.ForgivableError{
		Duration:    time.Duration(conf.Forgivable.DurationInMinute) * time.Minute,
		Count:       int(conf.Forgivable.Count),
		BanInMinute: int(conf.BanMinutes),
	}
}

// Middleware must be installed on the engine, not a group, so requests to
// undefined routes pass through it too.
func (f *Firewall) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if reason, ok := c.Get(KeyHackingError); ok {
			f.fw.LogIPError(c.ClientIP(), reason.(string))
			return
		}

		// route not defined in router, scanners mostly.
		if c.FullPath() == "" && c.Writer.Status() == http.StatusNotFound {
			f.fw.LogIPError(c.ClientIP(), "undefined_url "+c.Request.URL.Path)
		}
	}
}

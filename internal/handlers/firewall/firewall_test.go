package firewall

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charleshuang3/firewall"
	"github.com/charleshuang3/firewall/ipgeo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirewallConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config *FirewallConfig
	}{
		{
			name:   "nil config is disabled",
			config: nil,
		},
		{
			name:   "empty provider is disabled",
			config: &FirewallConfig{},
		},
		{
			name: "ros",
			config: &FirewallConfig{
				Provider:          "ros",
				ProviderIP:        "192.168.1.1",
				ProviderUser:      "admin",
				ProviderPassword:  "password",
				CityDBFile:        "/path/to/city.mmdb",
				UpdatedCityDBFile: "/path/to/updated_city.mmdb",
				ASNDBFile:         "/path/to/asn.mmdb",
				UpdatedASNDBFile:  "/path/to/updated_asn.mmdb",
			},
		},
		{
			name: "log only",
			config: &FirewallConfig{
				Provider:          "none",
				Whitelist:         []string{"10.0.0.1"},
				CityDBFile:        "/path/to/city.mmdb",
				UpdatedCityDBFile: "/path/to/updated_city.mmdb",
				ASNDBFile:         "/path/to/asn.mmdb",
				UpdatedASNDBFile:  "/path/to/updated_asn.mmdb",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Validate()
		})
	}
}

func TestFirewallConfig_applyDefault(t *testing.T) {
	config := FirewallConfig{}
	config.applyDefault()

	assert.Equal(t, FirewallConfig{
		BanMinutes: defaultBanMinutes,
		Forgivable: ForgivableError{
			DurationInMinute: defaultDurationInMinute,
			Count:            defaultCount,
		},
	}, config)
}

func TestFirewallConfig_Enabled(t *testing.T) {
	var nilConfig *FirewallConfig
	assert.False(t, nilConfig.Enabled())
	assert.False(t, (&FirewallConfig{}).Enabled())
	assert.True(t, (&FirewallConfig{Provider: "none"}).Enabled())
}

// MockILogger records firewall actions.
type MockILogger struct {
	mu   sync.Mutex
	logs []LogEntry
	wg   sync.WaitGroup
}

type LogEntry struct {
	IP     string
	action string
}

func (m *MockILogger) Log(ip string, jailUntil time.Time, reasons []string, action string, geo *ipgeo.IPGeo) {
	m.mu.Lock()
	m.logs = append(m.logs, LogEntry{
		IP:     ip,
		action: action,
	})
	m.mu.Unlock()
	m.wg.Done()
}

func (m *MockILogger) entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.logs...)
}

func setupTestFirewall(t *testing.T) (*gin.Engine, *MockILogger) {
	t.Helper()

	config := &FirewallConfig{}
	config.applyDefault()

	logger := &MockILogger{}
	f := &Firewall{
		fw:   firewall.New([]string{}, nil, logger, nil, forgivable(config)),
		conf: config,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(f.Middleware())
	router.GET("/ok", func(c *gin.Context) {})
	router.GET("/join/:code", func(c *gin.Context) {
		MarkSuspicious(c, "invalid invitation code")
		c.Status(http.StatusNotFound)
	})
	router.GET("/missing", func(c *gin.Context) {
		// a defined route answering 404 is not suspicious on its own
		c.Status(http.StatusNotFound)
	})
	router.GET("/500", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	return router, logger
}

func TestMiddleware_NoAction(t *testing.T) {
	for _, path := range []string{"/ok", "/missing", "/500"} {
		t.Run(path, func(t *testing.T) {
			router, logger := setupTestFirewall(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			// give some time if go func run.
			time.Sleep(time.Millisecond * 100)

			assert.Empty(t, logger.entries())
		})
	}
}

func TestMiddleware_LogErr(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{
			name: "marked",
			path: "/join/zzzz9999",
		},
		{
			name: "undefined route",
			path: "/wp-admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, logger := setupTestFirewall(t)
			logger.wg.Add(1)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)

			logger.wg.Wait()

			logs := logger.entries()
			require.Len(t, logs, 1)
			assert.Equal(t, "count error", logs[0].action)
			assert.Equal(t, "192.0.2.1", logs[0].IP)
		})
	}
}

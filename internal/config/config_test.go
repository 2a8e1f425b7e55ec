package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://sportia-api.onrender.com/api/v1", cfg.SportiaBaseURL)
	assert.Equal(t, 8*time.Second, cfg.SportiaMatchTimeout)
	assert.Equal(t, 12*time.Second, cfg.SportiaPredictTimeout)
	assert.Equal(t, 10000, cfg.Port)
	assert.Equal(t, HomeModePicks, cfg.HomeMode)
	assert.Equal(t, DateWindowToday, cfg.DateWindow)
	assert.Equal(t, 300*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "@every 5m0s", cfg.RefreshSpec())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.ArchiveEnabled)
	assert.False(t, cfg.MirrorEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOME_MODE", "matches")
	t.Setenv("DATE_WINDOW", "today_tomorrow")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	assert.Equal(t, HomeModeMatches, cfg.HomeMode)
	assert.Equal(t, DateWindowTodayTomorrow, cfg.DateWindow)
	assert.Equal(t, "@every 30s", cfg.RefreshSpec())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SportiaBaseURL:        "http://sportia.test",
			SportiaMatchTimeout:   time.Second,
			SportiaPredictTimeout: time.Second,
			HomeMode:              HomeModePicks,
			DateWindow:            DateWindowToday,
			ReferenceTZ:           "UTC",
			RefreshInterval:       time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.SportiaBaseURL = "" }, "SPORTIA_BASE_URL"},
		{"zero timeout", func(c *Config) { c.SportiaPredictTimeout = 0 }, "timeouts"},
		{"bad home mode", func(c *Config) { c.HomeMode = "ajax" }, "HOME_MODE"},
		{"bad date window", func(c *Config) { c.DateWindow = "week" }, "DATE_WINDOW"},
		{"bad time zone", func(c *Config) { c.ReferenceTZ = "Mars/Olympus" }, "REFERENCE_TZ"},
		{"interval too short", func(c *Config) { c.RefreshInterval = time.Millisecond }, "REFRESH_INTERVAL"},
		{"archive without password", func(c *Config) { c.ArchiveEnabled = true }, "DATABASE_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

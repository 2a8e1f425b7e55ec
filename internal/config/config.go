package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Home page modes
const (
	HomeModeMatches = "matches" // list today's matches, fetched per request
	HomeModePicks   = "picks"   // show the background-refreshed pick board
)

// Date windows for the match filter
const (
	DateWindowToday         = "today"
	DateWindowTodayTomorrow = "today_tomorrow"
)

// Config holds all application configuration
type Config struct {
	// Sportia API
	SportiaBaseURL        string        `envconfig:"SPORTIA_BASE_URL" default:"https://sportia-api.onrender.com/api/v1"`
	SportiaMatchTimeout   time.Duration `envconfig:"SPORTIA_MATCH_TIMEOUT" default:"8s"`
	SportiaPredictTimeout time.Duration `envconfig:"SPORTIA_PREDICT_TIMEOUT" default:"12s"`

	// HTTP server
	Port        int      `envconfig:"PORT" default:"10000"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Pages
	HomeMode    string `envconfig:"HOME_MODE" default:"picks"`
	DateWindow  string `envconfig:"DATE_WINDOW" default:"today"`
	ReferenceTZ string `envconfig:"REFERENCE_TZ" default:"UTC"`

	// Scheduler
	EnableScheduler bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"300s"`

	// Snapshot archive (PostgreSQL)
	ArchiveEnabled   bool   `envconfig:"ARCHIVE_ENABLED" default:"false"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"quantumbetlab"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"quantumbetlab"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Snapshot mirror (Redis)
	MirrorEnabled bool          `envconfig:"MIRROR_ENABLED" default:"false"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SnapshotTTL   time.Duration `envconfig:"SNAPSHOT_TTL" default:"1h"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SportiaBaseURL == "" {
		return fmt.Errorf("SPORTIA_BASE_URL is required")
	}

	if c.SportiaMatchTimeout <= 0 || c.SportiaPredictTimeout <= 0 {
		return fmt.Errorf("SPORTIA timeouts must be positive")
	}

	switch c.HomeMode {
	case HomeModeMatches, HomeModePicks:
	default:
		return fmt.Errorf("HOME_MODE must be %q or %q, got %q", HomeModeMatches, HomeModePicks, c.HomeMode)
	}

	switch c.DateWindow {
	case DateWindowToday, DateWindowTodayTomorrow:
	default:
		return fmt.Errorf("DATE_WINDOW must be %q or %q, got %q", DateWindowToday, DateWindowTodayTomorrow, c.DateWindow)
	}

	if _, err := time.LoadLocation(c.ReferenceTZ); err != nil {
		return fmt.Errorf("REFERENCE_TZ is not a valid time zone: %w", err)
	}

	if c.RefreshInterval < time.Second {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1s")
	}

	if c.ArchiveEnabled && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required when ARCHIVE_ENABLED is set")
	}

	return nil
}

// Location returns the reference time zone used for date filtering
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RefreshSpec returns the cron schedule for the board refresh job
func (c *Config) RefreshSpec() string {
	return fmt.Sprintf("@every %s", c.RefreshInterval)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// ListenAddr returns the HTTP listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the server. Values come from the
// environment (optionally via a .env file loaded in main) with sane defaults
// for local play.
type Config struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"8080"`

	// DataDir contains the game data files (word lists, card decks, songs).
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// QRDir holds the per-song QR code images served under /qr.
	QRDir string `env:"QR_DIR" envDefault:"data/qrcodes"`

	// GenerateQR renders missing QR images at startup from the songs'
	// streaming links.
	GenerateQR bool `env:"GENERATE_QR" envDefault:"true"`

	// SessionSecret signs the session cookie. When empty a random secret is
	// generated per process, which invalidates cookies across restarts.
	SessionSecret string `env:"SESSION_SECRET"`

	// SessionTTL is the inactivity window after which a session is swept.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SweepInterval is how often the expiry sweep runs.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`

	// RateLimitPerMin caps draw requests per session per minute.
	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" envDefault:"10"`

	// Ngrok tunnel settings, for exposing a locally hosted server to phones.
	NgrokEnabled bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuth    string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain  string `env:"NGROK_DOMAIN"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimitPerMin < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", cfg.RateLimitPerMin)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration. It is loaded once at startup
// from the environment and treated as immutable afterwards.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"PORT" default:"8080"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"http://localhost:3000"`

	// Timezone is used for "today" stats and the reminder schedule.
	Timezone string `envconfig:"TIMEZONE" default:"America/Chicago"`

	// LotCapacities maps parking lot names to their total spaces,
	// e.g. "Lombardi:100,Military:150".
	LotCapacities map[string]int `envconfig:"LOT_CAPACITIES" default:"Lombardi:100,Military:150"`

	SendgridAPIKey    string `envconfig:"SENDGRID_API_KEY"`
	SendgridFromEmail string `envconfig:"SENDGRID_FROM_EMAIL"`
	SendgridFromName  string `envconfig:"SENDGRID_FROM_NAME" default:"Parking Reservations"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `envconfig:"TWILIO_FROM_NUMBER"`

	// EnableTestLogin seeds a staff account at startup so test
	// environments can log in without provisioning users. The
	// password must be supplied explicitly; nothing is hardcoded.
	EnableTestLogin   bool   `envconfig:"ENABLE_TEST_LOGIN" default:"false"`
	TestLoginEmail    string `envconfig:"TEST_LOGIN_EMAIL" default:"test@example.com"`
	TestLoginPassword string `envconfig:"TEST_LOGIN_PASSWORD"`

	// WebhookRateLimit is the sustained requests-per-second allowed
	// on the public order webhook.
	WebhookRateLimit int `envconfig:"WEBHOOK_RATE_LIMIT" default:"10"`

	ReminderCronSpec string `envconfig:"REMINDER_CRON_SPEC" default:"0 7 * * *"`

	NotifyQueueSize int `envconfig:"NOTIFY_QUEUE_SIZE" default:"64"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if cfg.EnableTestLogin && cfg.TestLoginPassword == "" {
		return nil, fmt.Errorf("ENABLE_TEST_LOGIN requires TEST_LOGIN_PASSWORD to be set")
	}
	return &cfg, nil
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

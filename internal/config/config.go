package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Alerts  AlertsConfig
	Mailer  MailerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AlertsConfig holds orchestration and retention settings.
type AlertsConfig struct {
	CronSchedule    string
	SweepSchedule   string
	RetentionDays   int
	SweepHardDelete bool
	Workers         int
	OwnerTimeout    time.Duration
	StoreTimeout    time.Duration
	Timezone        string
}

// MailerConfig contains credentials and options for the mail transport API.
type MailerConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "aviary"),
		},
		Alerts: AlertsConfig{
			CronSchedule:    getenvWithDefault("ALERTS_CRON_SCHEDULE", "0 8 * * *"),
			SweepSchedule:   getenvWithDefault("ALERTS_SWEEP_SCHEDULE", "30 3 * * *"),
			RetentionDays:   getenvIntWithDefault("ALERTS_RETENTION_DAYS", 30),
			SweepHardDelete: getenvBoolWithDefault("ALERTS_SWEEP_HARD_DELETE", false),
			Workers:         getenvIntWithDefault("ALERTS_WORKERS", 4),
			OwnerTimeout:    getenvDurationWithDefault("ALERTS_OWNER_TIMEOUT", 30*time.Second),
			StoreTimeout:    getenvDurationWithDefault("ALERTS_STORE_TIMEOUT", 10*time.Second),
			Timezone:        getenvWithDefault("TIMEZONE", "UTC"),
		},
		Mailer: MailerConfig{
			BaseURL: getenvWithDefault("MAILER_BASE_URL", "https://api.mailer.local"),
			APIKey:  os.Getenv("MAILER_API_KEY"),
			Sender:  getenvWithDefault("MAILER_SENDER", "alerts@aviary.local"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and sane.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Alerts.CronSchedule == "" {
		return errors.New("ALERTS_CRON_SCHEDULE must be provided")
	}
	if c.Alerts.SweepSchedule == "" {
		return errors.New("ALERTS_SWEEP_SCHEDULE must be provided")
	}
	if c.Alerts.RetentionDays < 0 {
		return errors.New("ALERTS_RETENTION_DAYS must not be negative")
	}
	if c.Alerts.Workers <= 0 {
		return errors.New("ALERTS_WORKERS must be positive")
	}
	if _, err := time.LoadLocation(c.Alerts.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is not a valid location: %w", err)
	}

	if c.Mailer.BaseURL == "" {
		return errors.New("MAILER_BASE_URL must not be empty")
	}
	if c.Mailer.Sender == "" {
		return errors.New("MAILER_SENDER must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvIntWithDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolWithDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDurationWithDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

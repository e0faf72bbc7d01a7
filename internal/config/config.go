package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultProductURL = "https://www.dreams.co.uk/flaxby-oxtons-guild-pocket-sprung-mattress/p/131-01043-configurable"

type Config struct {
	// Database. DatabaseURL wins over the individual parts when set.
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBName      string
	DBUser      string
	DBPassword  string

	// Price source
	ProductURL          string
	FetchTimeoutSeconds int

	// Notifications (ntfy.sh)
	NtfyBaseURL    string
	NtfyTopic      string
	NotifyTitle    string
	NotifyPriority string
	NotifyTags     string

	// Scheduler. PollIntervalSeconds bounds worst-case trigger latency:
	// a due minute is noticed at most one poll interval after it starts.
	PollIntervalSeconds int

	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: envStr("DATABASE_URL", ""),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envInt("DB_PORT", 5432),
		DBName:      envStr("DB_NAME", "mattress_tracker"),
		DBUser:      envStr("DB_USER", ""),
		DBPassword:  envStr("DB_PASSWORD", ""),

		ProductURL:          envStr("PRODUCT_URL", defaultProductURL),
		FetchTimeoutSeconds: envInt("FETCH_TIMEOUT_SECONDS", 15),

		NtfyBaseURL:    envStr("NTFY_BASE_URL", "https://ntfy.sh"),
		NtfyTopic:      envStr("NTFY_TOPIC", "mattress-price-tracker-flaxby"),
		NotifyTitle:    envStr("NOTIFY_TITLE", "Mattress Price Alert"),
		NotifyPriority: envStr("NOTIFY_PRIORITY", "high"),
		NotifyTags:     envStr("NOTIFY_TAGS", "bed,money"),

		PollIntervalSeconds: envInt("POLL_INTERVAL_SECONDS", 10),

		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate reports fatal configuration problems. A missing storage location
// halts startup; everything else has a usable default.
func (c *Config) Validate() error {
	var errs []string

	if c.DatabaseURL == "" && c.DBUser == "" {
		errs = append(errs, "DATABASE_URL or DB_USER is required")
	}
	if c.ProductURL == "" {
		errs = append(errs, "PRODUCT_URL must not be empty")
	}
	if c.PollIntervalSeconds <= 0 {
		errs = append(errs, "POLL_INTERVAL_SECONDS must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// LogSummary writes the effective settings at startup. Secrets stay out.
func (c *Config) LogSummary(log zerolog.Logger) {
	log.Info().
		Str("db_host", c.DBHost).
		Str("db_name", c.DBName).
		Str("product_url", c.ProductURL).
		Int("poll_interval_s", c.PollIntervalSeconds).
		Int("fetch_timeout_s", c.FetchTimeoutSeconds).
		Int("api_port", c.APIPort).
		Msg("configuration loaded")

	if c.NtfyTopic == "" {
		log.Warn().Msg("NTFY_TOPIC not set, notifications disabled")
	} else {
		log.Info().Str("topic", c.NtfyTopic).Msg("notifications via ntfy.sh")
	}
	if c.APIKey == "" {
		log.Warn().Msg("API_KEY not set, REST API has no authentication")
	}
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the bot credential,
// the authorized chat, database connection settings, refresh cooldown and
// registry bounds, and observability switches.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TelegramConfig defines the chat platform settings.
type TelegramConfig struct {
	Token           string        // TELEGRAM_BOT_TOKEN
	BaseURL         string        // TELEGRAM_BASE_URL (overridable for tests)
	AllowedChatID   int64         // ALLOWED_CHAT_ID
	MentionRequired bool          // MENTION_REQUIRED: gate on @-mention instead of chat id
	PollTimeout     time.Duration // POLL_TIMEOUT for getUpdates long polls
}

// DBConfig defines the Postgres connection settings.
type DBConfig struct {
	Host     string // DB_HOST
	Port     string // DB_PORT
	Name     string // DB_NAME
	User     string // DB_USER
	Password string // DB_PASSWORD
	SSLMode  string // DB_SSLMODE
}

// DSN assembles a keyword/value Postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the bot process.
type Config struct {
	Telegram TelegramConfig
	DB       DBConfig

	// Refresh behavior
	RefreshCooldown  time.Duration // per-user minimum interval between refreshes
	RegistryCapacity int           // message state registry bound
	StoreTimeout     time.Duration // deadline on every record store lookup

	// Ops surface
	OpsPort string // /health + /metrics listener, empty disables

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Telegram: TelegramConfig{
			Token:           getenv("TELEGRAM_BOT_TOKEN", ""),
			BaseURL:         getenv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
			AllowedChatID:   getint64("ALLOWED_CHAT_ID", 0),
			MentionRequired: getbool("MENTION_REQUIRED", false),
			PollTimeout:     getdur("POLL_TIMEOUT", 30*time.Second),
		},
		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "traffic"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", ""),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},

		RefreshCooldown:  getdur("REFRESH_COOLDOWN", 60*time.Second),
		RegistryCapacity: getint("REGISTRY_CAPACITY", 1000),
		StoreTimeout:     getdur("STORE_TIMEOUT", 5*time.Second),

		OpsPort: getenv("OPS_PORT", "8081"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "statusbot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.Telegram.BaseURL = strings.TrimRight(cfg.Telegram.BaseURL, "/")

	// --- validation ---
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN must not be empty")
	}
	if cfg.Telegram.AllowedChatID == 0 {
		return cfg, errors.New("ALLOWED_CHAT_ID must be set")
	}
	if cfg.Telegram.PollTimeout <= 0 {
		return cfg, errors.New("POLL_TIMEOUT must be a positive duration")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if cfg.RefreshCooldown <= 0 {
		return cfg, errors.New("REFRESH_COOLDOWN must be a positive duration")
	}
	if cfg.RegistryCapacity < 2 {
		return cfg, errors.New("REGISTRY_CAPACITY must be >= 2")
	}
	if cfg.StoreTimeout <= 0 {
		return cfg, errors.New("STORE_TIMEOUT must be a positive duration")
	}
	if strings.TrimSpace(cfg.DB.Host) == "" || strings.TrimSpace(cfg.DB.Name) == "" {
		return cfg, errors.New("DB_HOST and DB_NAME must not be empty")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken string
	TelegramGroup string
	GroupLink     string
	WebinarLink   string
	DatabaseURL   string
	APIEndpoint   string
	LogLevel      string
	BotDebug      bool
	HTTPAddr      string
	PollTimeout   int
	PollInterval  time.Duration
	RetryDelay    time.Duration
}

const (
	defaultGroup       = "@your_group_username"
	defaultWebinarLink = "https://example.com/webinar"
	defaultDatabaseURL = "sqlite://webinar_bot.db"

	// MemoryDatabaseURL selects the process-local store; nothing survives a restart.
	MemoryDatabaseURL = "memory://"
)

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var result *multierror.Error

	cfg := &Config{
		TelegramToken: firstNonEmpty(os.Getenv("BOT_TOKEN"), os.Getenv("TELEGRAM_TOKEN")),
		TelegramGroup: getEnvOrDefault("TELEGRAM_GROUP", defaultGroup),
		WebinarLink:   getEnvOrDefault("WEBINAR_LINK", defaultWebinarLink),
		DatabaseURL:   getEnvOrDefault("DATABASE_URL", defaultDatabaseURL),
		APIEndpoint:   getEnvOrDefault("TELEGRAM_API_ENDPOINT", tgbotapi.APIEndpoint),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPAddr:      getEnvOrDefault("HTTP_ADDR", ":8080"),
	}
	cfg.GroupLink = getEnvOrDefault("TELEGRAM_GROUP_LINK", GroupLinkFor(cfg.TelegramGroup))

	var err error
	if cfg.BotDebug, err = getEnvAsBool("BOT_DEBUG", false); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.PollTimeout, err = getEnvAsInt("POLL_TIMEOUT", 30); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.PollInterval, err = getEnvAsDuration("POLL_INTERVAL", time.Second); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.RetryDelay, err = getEnvAsDuration("RETRY_DELAY", 5*time.Second); err != nil {
		result = multierror.Append(result, err)
	}

	if err := cfg.validate(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPTimeout bounds a single Bot API round trip. It must outlast the
// server-side long poll.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.PollTimeout)*time.Second + 15*time.Second
}

// InMemoryStore reports whether DATABASE_URL asks for the process-local store.
func (c *Config) InMemoryStore() bool {
	return c.DatabaseURL == MemoryDatabaseURL
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.TelegramToken == "" {
		result = multierror.Append(result, fmt.Errorf("BOT_TOKEN environment variable is required"))
	}
	if strings.TrimSpace(c.TelegramGroup) == "" {
		result = multierror.Append(result, fmt.Errorf("TELEGRAM_GROUP must not be empty"))
	}
	if u, err := url.Parse(c.WebinarLink); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("WEBINAR_LINK must be an absolute URL, got %q", c.WebinarLink))
	}
	if c.PollTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("POLL_TIMEOUT must not be negative"))
	}

	return result.ErrorOrNil()
}

// GroupLinkFor derives the public t.me link of a group given as @username.
func GroupLinkFor(group string) string {
	return "https://t.me/" + strings.TrimPrefix(strings.TrimSpace(group), "@")
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

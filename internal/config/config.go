package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings for the bot.
// LLM provider selection lives in llm.ConfigFromEnv.
type Config struct {
	// TelegramToken authenticates against the Bot API.
	TelegramToken string

	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string

	// RedisURL, when set, moves quiz state and answer history to Redis.
	// The SQLite store still records LLM request events.
	RedisURL string

	// LogMode is "prod" or "dev".
	LogMode string

	// HashUsers hashes user identifiers in log output.
	HashUsers bool

	// HealthAddr is the listen address for /healthz. Empty disables it.
	HealthAddr string

	// LLMTimeout bounds each call to the reasoning service.
	LLMTimeout time.Duration

	// NotionToken and NotionDatabaseID enable mirroring graded answers to
	// a Notion database. Both must be set.
	NotionToken      string
	NotionDatabaseID string

	// Debug turns on Bot API request logging.
	Debug bool
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	return Config{
		TelegramToken: firstEnv("GAINBRAIN_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"),
		DBPath:        os.Getenv("GAINBRAIN_DB"),
		RedisURL:      os.Getenv("GAINBRAIN_REDIS_URL"),
		LogMode:       getEnvOrDefault("GAINBRAIN_LOG_MODE", "dev"),
		HashUsers:     getEnvAsBool("GAINBRAIN_LOG_HASH_USERS", false),
		HealthAddr:    os.Getenv("GAINBRAIN_HEALTH_ADDR"),
		LLMTimeout:    getEnvAsDuration("GAINBRAIN_LLM_TIMEOUT", 30*time.Second),
		Debug:         getEnvAsBool("GAINBRAIN_DEBUG", false),

		NotionToken:      firstEnv("GAINBRAIN_NOTION_TOKEN", "NOTION_TOKEN"),
		NotionDatabaseID: firstEnv("GAINBRAIN_NOTION_DATABASE_ID", "NOTION_DATABASE_ID"),
	}
}

// NotionEnabled reports whether both Notion settings are present.
func (c Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// ValidateForBot checks the settings the Telegram transport cannot run without.
func (c Config) ValidateForBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("GAINBRAIN_TELEGRAM_TOKEN (or TELEGRAM_BOT_TOKEN) is required")
	}
	if (c.NotionToken == "") != (c.NotionDatabaseID == "") {
		return fmt.Errorf("NOTION_TOKEN and NOTION_DATABASE_ID must be set together")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("GAINBRAIN_LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

package telegram

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything needed to run the portfolio bot.
// Use NewConfigFromEnv() to load from environment variables (.env file).
type Config struct {
	// BotToken authenticates against the Telegram Bot API.
	BotToken string
	// TemplateOwner/TemplateRepo point at the Hugo template repository
	// every portfolio is generated from.
	TemplateOwner string
	TemplateRepo  string
	// RepoInfoFile is the JSON file with the userID → repo mapping.
	// Ignored when RedisAddr is set.
	RepoInfoFile string
	// RedisAddr switches repo-record persistence to Redis when non-empty.
	RedisAddr string
	// RedisPassword and RedisDB apply only when RedisAddr is set.
	RedisPassword string
	RedisDB       int
	// ClearTokenAfterPublish wipes the GitHub token from the session once
	// a publish succeeds. Off by default so /update works without re-auth.
	ClearTokenAfterPublish bool
	// SessionIdleTTL evicts dialog sessions idle longer than this.
	// Zero disables eviction.
	SessionIdleTTL time.Duration
	// Debug enables verbose logging.
	Debug bool
	// LogFile path for file logging (empty = stdout only).
	LogFile string
}

// NewConfigFromEnv loads configuration from environment variables, reading
// a .env file first when present.
func NewConfigFromEnv() (*Config, error) {
	// Ignore a missing .env; real deployments use the environment directly.
	_ = godotenv.Load()

	botToken := getEnv("TELEGRAM_BOT_TOKEN", "")
	if botToken == "" {
		return nil, fmt.Errorf("bot token not configured: set TELEGRAM_BOT_TOKEN in environment")
	}

	var idleTTL time.Duration
	if raw := getEnv("SESSION_IDLE_TTL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_IDLE_TTL %q: %w", raw, err)
		}
		idleTTL = d
	}

	redisDB := 0
	if raw := getEnv("REDIS_DB", ""); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &redisDB); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
	}

	return &Config{
		BotToken:               botToken,
		TemplateOwner:          getEnv("HUGO_TEMPLATE_OWNER", "ruslanshgd"),
		TemplateRepo:           getEnv("HUGO_TEMPLATE_REPO", "izi-portfolio-template"),
		RepoInfoFile:           getEnv("REPO_INFO_FILE", "user_repos.json"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                redisDB,
		ClearTokenAfterPublish: toBool(getEnv("CLEAR_TOKEN_AFTER_PUBLISH", "false")),
		SessionIdleTTL:         idleTTL,
		Debug:                  toBool(getEnv("DEBUG", "false")),
		LogFile:                getEnv("LOG_FILE", ""),
	}, nil
}

// Summary returns a human-readable configuration summary with sensitive data masked.
func (c *Config) Summary() string {
	tokenDisplay := c.BotToken
	if len(tokenDisplay) > 10 {
		tokenDisplay = tokenDisplay[:10] + "..."
	}
	storage := "file:" + c.RepoInfoFile
	if c.RedisAddr != "" {
		storage = "redis:" + c.RedisAddr
	}
	return fmt.Sprintf(
		"Token: %s | Template: %s/%s | Storage: %s | Debug: %v",
		tokenDisplay, c.TemplateOwner, c.TemplateRepo, storage, c.Debug,
	)
}

// --- internal helpers ---

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func toBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

package telegram

import (
	"strings"
	"testing"
	"time"
)

func TestNewConfigFromEnvRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if _, err := NewConfigFromEnv(); err == nil {
		t.Fatal("missing token must be an error")
	}
}

func TestNewConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:ABCDEF")
	t.Setenv("SESSION_IDLE_TTL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := NewConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RepoInfoFile != "user_repos.json" {
		t.Fatalf("RepoInfoFile = %q", cfg.RepoInfoFile)
	}
	if cfg.SessionIdleTTL != 0 || cfg.ClearTokenAfterPublish {
		t.Fatalf("defaults: ttl=%v clear=%v", cfg.SessionIdleTTL, cfg.ClearTokenAfterPublish)
	}
}

func TestNewConfigFromEnvParsesTTL(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:ABCDEF")
	t.Setenv("SESSION_IDLE_TTL", "45m")

	cfg, err := NewConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionIdleTTL != 45*time.Minute {
		t.Fatalf("ttl = %v", cfg.SessionIdleTTL)
	}

	t.Setenv("SESSION_IDLE_TTL", "bogus")
	if _, err := NewConfigFromEnv(); err == nil {
		t.Fatal("bad TTL must be an error")
	}
}

func TestSummaryMasksToken(t *testing.T) {
	cfg := &Config{
		BotToken:      "123456789:very-secret-token",
		TemplateOwner: "owner",
		TemplateRepo:  "tmpl",
		RepoInfoFile:  "user_repos.json",
	}
	s := cfg.Summary()
	if strings.Contains(s, "very-secret-token") {
		t.Fatalf("token leaked: %s", s)
	}
	if !strings.Contains(s, "owner/tmpl") {
		t.Fatalf("template missing: %s", s)
	}
}

package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GAINBRAIN_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN", "GAINBRAIN_DB",
		"GAINBRAIN_REDIS_URL", "GAINBRAIN_LOG_MODE", "GAINBRAIN_LOG_HASH_USERS",
		"GAINBRAIN_HEALTH_ADDR", "GAINBRAIN_LLM_TIMEOUT", "GAINBRAIN_DEBUG",
		"GAINBRAIN_NOTION_TOKEN", "NOTION_TOKEN",
		"GAINBRAIN_NOTION_DATABASE_ID", "NOTION_DATABASE_ID",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test

	cfg := Load()
	if cfg.LogMode != "dev" {
		t.Errorf("LogMode = %q, want dev", cfg.LogMode)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout = %s, want 30s", cfg.LLMTimeout)
	}
	if cfg.HashUsers || cfg.Debug {
		t.Error("boolean flags should default to false")
	}
	if err := cfg.ValidateForBot(); err == nil {
		t.Error("expected missing token to fail validation")
	}
}

func TestLoad_TokenFallback(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy")

	cfg := Load()
	if cfg.TelegramToken != "legacy" {
		t.Fatalf("TelegramToken = %q, want legacy", cfg.TelegramToken)
	}

	t.Setenv("GAINBRAIN_TELEGRAM_TOKEN", "primary")
	cfg = Load()
	if cfg.TelegramToken != "primary" {
		t.Fatalf("TelegramToken = %q, want primary", cfg.TelegramToken)
	}
	if err := cfg.ValidateForBot(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GAINBRAIN_LLM_TIMEOUT", "5s")
	t.Setenv("GAINBRAIN_LOG_HASH_USERS", "true")
	t.Setenv("GAINBRAIN_REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("LLMTimeout = %s, want 5s", cfg.LLMTimeout)
	}
	if !cfg.HashUsers {
		t.Error("HashUsers should be true")
	}
	if cfg.RedisURL == "" {
		t.Error("RedisURL should be set")
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GAINBRAIN_LLM_TIMEOUT", "soon")

	if got := Load().LLMTimeout; got != 30*time.Second {
		t.Errorf("LLMTimeout = %s, want fallback 30s", got)
	}
}

func TestLoad_Notion(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GAINBRAIN_TELEGRAM_TOKEN", "tok")

	cfg := Load()
	if cfg.NotionEnabled() {
		t.Fatal("notion should be off by default")
	}

	t.Setenv("NOTION_TOKEN", "secret_x")
	cfg = Load()
	if cfg.NotionEnabled() {
		t.Fatal("notion needs a database ID too")
	}
	if err := cfg.ValidateForBot(); err == nil {
		t.Fatal("expected a half-configured notion export to fail validation")
	}

	t.Setenv("NOTION_DATABASE_ID", "db-1")
	cfg = Load()
	if !cfg.NotionEnabled() || cfg.NotionToken != "secret_x" || cfg.NotionDatabaseID != "db-1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.ValidateForBot(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

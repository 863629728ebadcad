package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.AI.Provider != "openai" {
		t.Errorf("default provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4.1-nano" {
		t.Errorf("default model = %q, want gpt-4.1-nano", cfg.AI.Model)
	}
	if cfg.Web.Port != 18080 {
		t.Errorf("default web port = %d, want 18080", cfg.Web.Port)
	}
	if cfg.Store.Path == "" {
		t.Error("default store path should not be empty")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok-123")
	t.Setenv("CLIENT_ID", "app-456")
	t.Setenv("GUILD_ID", "guild-789")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_MODEL", "gpt-4o-mini")
	t.Setenv("KAISEKI_WEB_PORT", "9999")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.Discord.Token != "tok-123" {
		t.Errorf("token = %q", cfg.Discord.Token)
	}
	if cfg.Discord.AppID != "app-456" {
		t.Errorf("app id = %q", cfg.Discord.AppID)
	}
	if cfg.Discord.GuildID != "guild-789" {
		t.Errorf("guild id = %q", cfg.Discord.GuildID)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
	if cfg.Web.Port != 9999 {
		t.Errorf("web port = %d", cfg.Web.Port)
	}
}

func TestApplyEnvAnthropicKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.AI.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.APIKey != "sk-ant" {
		t.Errorf("api key = %q", cfg.AI.APIKey)
	}
}

func TestValidateListsMissing(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty config")
	}
	for _, want := range []string{"discord.token", "discord.app_id", "ai.api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error should mention %s, got: %v", want, err)
		}
	}

	cfg.Discord.Token = "t"
	cfg.Discord.AppID = "a"
	cfg.AI.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete config should validate: %v", err)
	}
}

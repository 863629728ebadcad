package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	AI      AIConfig      `yaml:"ai"`
	Web     WebConfig     `yaml:"web"`
	Store   StoreConfig   `yaml:"store"`
	Digest  DigestConfig  `yaml:"digest,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
}

type DiscordConfig struct {
	Token   string `yaml:"token,omitempty"`    // Bot token from Discord Developer Portal
	AppID   string `yaml:"app_id,omitempty"`   // Application (client) ID for command registration
	GuildID string `yaml:"guild_id,omitempty"` // Guild the slash commands are registered to
}

type AIConfig struct {
	Provider string `yaml:"provider,omitempty"` // "openai" (default) or "anthropic"
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

type WebConfig struct {
	Port int `yaml:"port,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// DigestConfig configures the optional scheduled channel digest.
type DigestConfig struct {
	Enabled     bool   `yaml:"enabled,omitempty"`
	Schedule    string `yaml:"schedule,omitempty"` // standard 5-field cron expression
	ChannelID   string `yaml:"channel_id,omitempty"`
	ChannelName string `yaml:"channel_name,omitempty"`
	Instruction string `yaml:"instruction,omitempty"`
	PromptName  string `yaml:"prompt_name,omitempty"` // saved prompt name; wins over instruction
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "openai",
			Model:    "gpt-4.1-nano",
		},
		Web: WebConfig{
			Port: 18080,
		},
		Store: StoreConfig{
			Path: filepath.Join(ConfigDir(), "kaiseki.db"),
		},
		Digest: DigestConfig{
			Schedule: "0 9 * * *",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func ConfigDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".kaiseki")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".kaiseki.yaml")
}

func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfEnv(&c.Discord.Token, "DISCORD_TOKEN")
	setIfEnv(&c.Discord.AppID, "DISCORD_APP_ID", "CLIENT_ID")
	setIfEnv(&c.Discord.GuildID, "DISCORD_GUILD_ID", "GUILD_ID")
	setIfEnv(&c.AI.Provider, "AI_PROVIDER")
	setIfEnv(&c.AI.BaseURL, "AI_BASE_URL")
	setIfEnv(&c.AI.Model, "AI_MODEL")
	setIfEnv(&c.Store.Path, "KAISEKI_DB")

	switch c.AI.Provider {
	case "anthropic":
		setIfEnv(&c.AI.APIKey, "ANTHROPIC_API_KEY", "AI_API_KEY")
	default:
		setIfEnv(&c.AI.APIKey, "OPENAI_API_KEY", "AI_API_KEY")
	}

	if v := os.Getenv("KAISEKI_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
}

func setIfEnv(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}

// Validate reports every missing required setting by name.
func (c *Config) Validate() error {
	var missing []string
	if c.Discord.Token == "" {
		missing = append(missing, "discord.token (DISCORD_TOKEN)")
	}
	if c.Discord.AppID == "" {
		missing = append(missing, "discord.app_id (DISCORD_APP_ID)")
	}
	if c.AI.APIKey == "" {
		missing = append(missing, "ai.api_key (OPENAI_API_KEY / ANTHROPIC_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings:\n  - %s", strings.Join(missing, "\n  - "))
	}
	return nil
}

func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

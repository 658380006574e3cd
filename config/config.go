package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"pulsarbot/core"
)

const DefaultConfigPath = "config.toml"

type AppConfig struct {
	DiscordToken string  `toml:"discord-token"`
	Guilds       []int64 `toml:"guilds"`
	APIURL       string  `toml:"api-url"`
	APIKey       string  `toml:"api-key"`

	// Optional settings
	HTTPPort              string `toml:"http-port"` // empty disables the introspection server
	CORSAllowedOrigins    string `toml:"cors-allowed-origins"`
	AlertWebhookURL       string `toml:"alert-webhook-url"`
	Environment           string `toml:"environment"`
	Workers               int    `toml:"workers"`
	RequestTimeoutSeconds int    `toml:"request-timeout-seconds"` // 0 means no timeout
}

// GuildIDs returns the configured guilds as Discord snowflake strings
func (c *AppConfig) GuildIDs() []string {
	ids := make([]string, 0, len(c.Guilds))
	for _, guild := range c.Guilds {
		ids = append(ids, strconv.FormatInt(guild, 10))
	}
	return ids
}

func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LoadConfig reads the TOML config file, then applies environment overrides
// (including those from a .env file) and validates the result
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Could not load .env file, continuing with system env vars")
	}

	cfg := &AppConfig{}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, core.FromCause(err, core.KindDecode).
			Attachf("failed to read config file (%s)", path)
	}

	if _, err := toml.Decode(string(content), cfg); err != nil {
		return nil, core.FromCause(err, core.KindDecode).
			Attach("failed to decode config file, it is likely invalid")
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, core.FromCause(err, core.KindDecode).
			Attach("error validating config values")
	}

	log.Printf("✅ Loaded config from %s (%d guilds)", path, len(cfg.Guilds))
	if cfg.AlertWebhookURL == "" {
		log.Printf("⚠️ Alert webhook not configured - error alerts will only be logged")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	overrides := map[string]*string{
		"DISCORD_TOKEN":        &cfg.DiscordToken,
		"API_URL":              &cfg.APIURL,
		"API_KEY":              &cfg.APIKey,
		"HTTP_PORT":            &cfg.HTTPPort,
		"CORS_ALLOWED_ORIGINS": &cfg.CORSAllowedOrigins,
		"ALERT_WEBHOOK_URL":    &cfg.AlertWebhookURL,
		"ENVIRONMENT":          &cfg.Environment,
	}
	for key, field := range overrides {
		if value := os.Getenv(key); value != "" {
			*field = value
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.CORSAllowedOrigins == "" {
		cfg.CORSAllowedOrigins = "*"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 16
	}
}

func (c *AppConfig) validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("discord-token is not set")
	}
	if c.APIURL == "" {
		return fmt.Errorf("api-url is not set")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api-key is not set")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request-timeout-seconds cannot be negative")
	}
	return nil
}

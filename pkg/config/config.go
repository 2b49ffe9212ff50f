package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	Server      ServerConfig  `mapstructure:"server"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Storage     StorageConfig `mapstructure:"storage"`
	Discord     DiscordConfig `mapstructure:"discord"`
}

// ServerConfig holds the HTTP API server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MetricsConfig holds the Prometheus metrics server configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// StorageConfig holds the JSON file store configuration
type StorageConfig struct {
	Dir          string `mapstructure:"dir"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// DiscordConfig holds webhook and optional bot configuration
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Username   string `mapstructure:"username"`
	AvatarURL  string `mapstructure:"avatar_url"`
	Timeout    string `mapstructure:"timeout"`
	BotToken   string `mapstructure:"bot_token"`
	ChannelID  string `mapstructure:"channel_id"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Environment variables take priority over file values
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EMBEDFORGE")

	v.BindEnv("environment", "EMBEDFORGE_ENVIRONMENT")
	v.BindEnv("log_level", "EMBEDFORGE_LOG_LEVEL")

	v.BindEnv("server.host", "EMBEDFORGE_SERVER_HOST")
	v.BindEnv("server.port", "EMBEDFORGE_SERVER_PORT")
	v.BindEnv("metrics.enabled", "EMBEDFORGE_METRICS_ENABLED")
	v.BindEnv("metrics.port", "EMBEDFORGE_METRICS_PORT")

	v.BindEnv("storage.dir", "EMBEDFORGE_STORAGE_DIR")
	v.BindEnv("storage.history_limit", "EMBEDFORGE_STORAGE_HISTORY_LIMIT")

	v.BindEnv("discord.webhook_url", "EMBEDFORGE_DISCORD_WEBHOOK_URL")
	v.BindEnv("discord.username", "EMBEDFORGE_DISCORD_USERNAME")
	v.BindEnv("discord.avatar_url", "EMBEDFORGE_DISCORD_AVATAR_URL")
	v.BindEnv("discord.timeout", "EMBEDFORGE_DISCORD_TIMEOUT")
	v.BindEnv("discord.bot_token", "EMBEDFORGE_DISCORD_BOT_TOKEN")
	v.BindEnv("discord.channel_id", "EMBEDFORGE_DISCORD_CHANNEL_ID")

	// YAML config file is optional; environment variables can provide everything
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/embedforge")

		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Storage.HistoryLimit <= 0 {
		return nil, fmt.Errorf("storage.history_limit must be positive, got %d", config.Storage.HistoryLimit)
	}

	if config.Discord.BotToken != "" && config.Discord.ChannelID == "" {
		return nil, fmt.Errorf("EMBEDFORGE_DISCORD_CHANNEL_ID must be set when using a bot token")
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8480)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9190)

	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.history_limit", 50)

	v.SetDefault("discord.username", "")
	v.SetDefault("discord.avatar_url", "")
	v.SetDefault("discord.timeout", "10s")
}

// Address returns the HTTP API server address
func (c *Config) Address() string {
	return c.Server.Address()
}

// Address returns the host:port listen address
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DispatchTimeout returns the webhook POST timeout, falling back to 10s
// when the configured value does not parse.
func (c *DiscordConfig) DispatchTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil || timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}

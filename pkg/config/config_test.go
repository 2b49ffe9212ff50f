package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ConfigFromFile(t *testing.T) {
	configContent := `environment: test
log_level: debug
server:
  host: localhost
  port: 9999
storage:
  dir: /tmp/embedforge-test
  history_limit: 20
discord:
  webhook_url: https://discord.com/api/webhooks/test
  username: Test Bot
  timeout: 5s`

	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(configContent)
	require.NoError(t, err)
	tmpFile.Close()

	config, err := Load(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "/tmp/embedforge-test", config.Storage.Dir)
	assert.Equal(t, 20, config.Storage.HistoryLimit)
	assert.Equal(t, "https://discord.com/api/webhooks/test", config.Discord.WebhookURL)
	assert.Equal(t, "Test Bot", config.Discord.Username)
	assert.Equal(t, 5*time.Second, config.Discord.DispatchTimeout())
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 50, config.Storage.HistoryLimit)
	assert.Equal(t, 10*time.Second, config.Discord.DispatchTimeout())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("EMBEDFORGE_LOG_LEVEL", "warn")
	t.Setenv("EMBEDFORGE_DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/env")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, "https://discord.com/api/webhooks/env", config.Discord.WebhookURL)
}

func TestLoad_BotTokenRequiresChannel(t *testing.T) {
	t.Setenv("EMBEDFORGE_DISCORD_BOT_TOKEN", "test-token")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHANNEL_ID")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("non-existent-file.yaml")
	assert.Error(t, err)
}

func TestConfig_Address(t *testing.T) {
	config := &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8480,
		},
	}

	assert.Equal(t, "127.0.0.1:8480", config.Address())
}

func TestDispatchTimeout_Invalid(t *testing.T) {
	cfg := DiscordConfig{Timeout: "not-a-duration"}
	assert.Equal(t, 10*time.Second, cfg.DispatchTimeout())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWebhookURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "canonical host", url: "https://discord.com/api/webhooks/123/token", want: true},
		{name: "legacy host", url: "https://discordapp.com/api/webhooks/123/token", want: true},
		{name: "wrong path", url: "https://discord.com/api/channels/123", want: false},
		{name: "unrelated host", url: "https://example.com/api/webhooks/123", want: false},
		{name: "empty", url: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWebhookURL(tt.url))
		})
	}
}

func TestWebhookSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings WebhookSettings
		want     []string
	}{
		{
			name:     "empty record is valid",
			settings: WebhookSettings{},
			want:     nil,
		},
		{
			name: "complete record is valid",
			settings: WebhookSettings{
				URL:       "https://discord.com/api/webhooks/1/t",
				Username:  "bot",
				AvatarURL: "https://example.com/a.png",
			},
			want: nil,
		},
		{
			name:     "non-webhook URL",
			settings: WebhookSettings{URL: "https://example.com/hook"},
			want:     []string{"Webhook URL must be a Discord webhook URL"},
		},
		{
			name:     "non-http avatar",
			settings: WebhookSettings{AvatarURL: "ftp://example.com/a.png"},
			want:     []string{"Avatar URL must start with http:// or https://"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.Validate())
		})
	}
}

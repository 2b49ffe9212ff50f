package domain

import (
	"context"
	"strings"
)

// Template is a named, described embed snapshot.
type Template struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Embed       *Embed `json:"embed"`
}

// WebhookSettings is the single persisted webhook destination record.
// Writes are last-write-wins.
type WebhookSettings struct {
	URL       string `json:"url"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// IsWebhookURL reports whether url points at the Discord webhook API,
// on either the current or the legacy host.
func IsWebhookURL(url string) bool {
	return strings.Contains(url, "discord.com/api/webhooks/") ||
		strings.Contains(url, "discordapp.com/api/webhooks/")
}

// Validate returns the violations that make the settings unusable as a
// dispatch destination. An empty record is valid; the destination check
// only applies once a URL is set.
func (s WebhookSettings) Validate() []string {
	var violations []string
	if s.URL != "" && !IsWebhookURL(s.URL) {
		violations = append(violations, "Webhook URL must be a Discord webhook URL")
	}
	if s.AvatarURL != "" && !hasHTTPScheme(s.AvatarURL) {
		violations = append(violations, "Avatar URL must start with http:// or https://")
	}
	return violations
}

// HistoryRepository stores embed snapshots of successful sends, ordered
// most-recent-last and capped to the configured limit on save.
type HistoryRepository interface {
	// Append adds a snapshot to the end of the history.
	Append(ctx context.Context, embed *Embed) error
	// List returns the stored snapshots in order along with the number of
	// records that were dropped because they could not be decoded.
	List(ctx context.Context) ([]*Embed, int, error)
	// Clear removes all stored snapshots.
	Clear(ctx context.Context) error
}

// TemplateRepository stores named embed templates. The model enforces no
// cap on the number of templates.
type TemplateRepository interface {
	Save(ctx context.Context, template Template) error
	List(ctx context.Context) ([]Template, int, error)
	Delete(ctx context.Context, name string) error
}

// SettingsRepository stores the webhook settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (WebhookSettings, error)
	Update(ctx context.Context, settings WebhookSettings) error
}

// MessageSender performs a single dispatch of a message payload. A failed
// send is classified as either a *RemoteRejectedError or a
// *TransportError; implementations do not retry.
type MessageSender interface {
	Send(ctx context.Context, webhookURL string, payload MessagePayload) error
}

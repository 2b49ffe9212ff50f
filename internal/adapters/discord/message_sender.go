package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/oniisama/embedforge/pkg/config"
	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
)

const (
	// maxErrorBodyBytes bounds how much of a non-JSON error body is kept
	// when Discord rejects a message.
	maxErrorBodyBytes = 300

	// BotTokenPrefix is the prefix for Discord bot tokens
	BotTokenPrefix = "Bot "
)

// MessageSender dispatches message payloads to Discord, either through a
// webhook POST or, when a bot token and channel are configured, through
// the bot API. A single attempt per call, no retries.
type MessageSender struct {
	config     *config.DiscordConfig
	logger     logger.Logger
	httpClient *http.Client
	session    *discordgo.Session
}

// NewMessageSender creates a message sender. The bot session is created
// only when a token is configured; it is used purely for REST calls and
// never opens a gateway connection.
func NewMessageSender(cfg *config.DiscordConfig, log logger.Logger) *MessageSender {
	sender := &MessageSender{
		config: cfg,
		logger: log,
		httpClient: &http.Client{
			Timeout: cfg.DispatchTimeout(),
		},
	}

	if cfg.BotToken != "" {
		session, err := discordgo.New(BotTokenPrefix + cfg.BotToken)
		if err != nil {
			log.WithError(err).Warn("Failed to create bot session, falling back to webhook sending")
		} else {
			sender.session = session
		}
	}

	return sender
}

// Send performs a single synchronous dispatch. The outcome is classified:
// nil on HTTP 200/204, *domain.RemoteRejectedError on any other status,
// *domain.TransportError when no response was received. Local precondition
// failures (bad webhook URL, non-http avatar) are plain errors returned
// before anything touches the network. Configured destination and
// identity values fill in whatever the caller left empty.
func (s *MessageSender) Send(ctx context.Context, webhookURL string, payload domain.MessagePayload) error {
	if webhookURL == "" {
		webhookURL = s.config.WebhookURL
	}
	if payload.Username == "" {
		payload.Username = s.config.Username
	}
	if payload.AvatarURL == "" {
		payload.AvatarURL = s.config.AvatarURL
	}

	if err := s.checkLocalPreconditions(webhookURL, payload); err != nil {
		return err
	}

	if webhookURL == "" {
		return s.sendBotMessage(payload)
	}
	return s.sendWebhookMessage(ctx, webhookURL, payload)
}

// checkLocalPreconditions rejects obviously unusable input before the
// network call.
func (s *MessageSender) checkLocalPreconditions(webhookURL string, payload domain.MessagePayload) error {
	if webhookURL == "" {
		if s.session == nil || s.config.ChannelID == "" {
			return fmt.Errorf("no webhook URL given and no bot channel configured")
		}
		return nil
	}

	if !domain.IsWebhookURL(webhookURL) {
		return fmt.Errorf("not a Discord webhook URL: %s", webhookURL)
	}

	if payload.AvatarURL != "" && !strings.HasPrefix(payload.AvatarURL, "http://") && !strings.HasPrefix(payload.AvatarURL, "https://") {
		return fmt.Errorf("avatar URL must start with http:// or https://")
	}

	return nil
}

// sendWebhookMessage POSTs the payload to the webhook endpoint.
func (s *MessageSender) sendWebhookMessage(ctx context.Context, webhookURL string, payload domain.MessagePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		s.logger.WithField("status", resp.StatusCode).Debug("Webhook accepted")
		return nil
	}

	return s.classifyRejection(resp)
}

// classifyRejection builds a RemoteRejectedError from a non-success
// response, preferring the structured Discord error body over raw text.
func (s *MessageSender) classifyRejection(resp *http.Response) error {
	rejection := &domain.RemoteRejectedError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return rejection
	}

	var apiError struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &apiError); err == nil && apiError.Message != "" {
		rejection.Message = apiError.Message
		if len(apiError.Errors) > 0 {
			rejection.Details = string(apiError.Errors)
		}
		return rejection
	}

	if len(raw) > maxErrorBodyBytes {
		raw = raw[:maxErrorBodyBytes]
	}
	rejection.Message = string(raw)
	return rejection
}

// sendBotMessage sends the payload to the configured channel through the
// bot REST API instead of a webhook.
func (s *MessageSender) sendBotMessage(payload domain.MessagePayload) error {
	message := &discordgo.MessageSend{
		Embeds: make([]*discordgo.MessageEmbed, len(payload.Embeds)),
	}
	for i := range payload.Embeds {
		message.Embeds[i] = toBotEmbed(&payload.Embeds[i])
	}

	if _, err := s.session.ChannelMessageSendComplex(s.config.ChannelID, message); err != nil {
		return fmt.Errorf("failed to send bot message: %w", err)
	}

	s.logger.WithField("channel_id", s.config.ChannelID).Debug("Bot message accepted")
	return nil
}

// toBotEmbed converts a wire embed into the discordgo message shape.
func toBotEmbed(embed *domain.EmbedPayload) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		URL:         embed.URL,
		Timestamp:   embed.Timestamp,
	}

	if embed.Color != nil {
		out.Color = *embed.Color
	}
	if embed.Footer != nil {
		out.Footer = &discordgo.MessageEmbedFooter{
			Text:    embed.Footer.Text,
			IconURL: embed.Footer.IconURL,
		}
	}
	if embed.Author != nil {
		out.Author = &discordgo.MessageEmbedAuthor{
			Name:    embed.Author.Name,
			IconURL: embed.Author.IconURL,
			URL:     embed.Author.URL,
		}
	}
	if embed.Thumbnail != nil {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.Thumbnail.URL}
	}
	if embed.Image != nil {
		out.Image = &discordgo.MessageEmbedImage{URL: embed.Image.URL}
	}

	if len(embed.Fields) > 0 {
		out.Fields = make([]*discordgo.MessageEmbedField, len(embed.Fields))
		for i, f := range embed.Fields {
			out.Fields[i] = &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			}
		}
	}

	return out
}

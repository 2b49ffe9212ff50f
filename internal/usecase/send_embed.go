package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
	"github.com/oniisama/embedforge/pkg/metrics"
)

// SendEmbedUseCase orchestrates the validate-then-dispatch business rules
// for sending an embed to Discord.
type SendEmbedUseCase struct {
	settingsRepo domain.SettingsRepository
	historyRepo  domain.HistoryRepository
	sender       domain.MessageSender
	metrics      *metrics.EmbedMetrics
	logger       logger.Logger
}

// NewSendEmbedUseCase creates a new send embed use case. The metrics
// recorder may be nil.
func NewSendEmbedUseCase(
	settingsRepo domain.SettingsRepository,
	historyRepo domain.HistoryRepository,
	sender domain.MessageSender,
	m *metrics.EmbedMetrics,
	logger logger.Logger,
) *SendEmbedUseCase {
	return &SendEmbedUseCase{
		settingsRepo: settingsRepo,
		historyRepo:  historyRepo,
		sender:       sender,
		metrics:      m,
		logger:       logger,
	}
}

// SendEmbedCommand represents the command to send an embed. WebhookURL,
// Username and AvatarURL override the stored settings when non-empty.
// Force dispatches even when validation reports violations.
type SendEmbedCommand struct {
	Embed      *domain.Embed
	Components *domain.ComponentSet
	WebhookURL string
	Username   string
	AvatarURL  string
	Force      bool
}

// SendEmbedResult represents the outcome of a send attempt.
type SendEmbedResult struct {
	Success    bool
	Violations []string
	EventID    string
	StatusCode int
	Message    string
	SentAt     time.Time
}

// Execute validates the embed, resolves the destination and dispatches a
// single message. Validation violations without Force block the send and
// return a result with Success false and a nil error; dispatch failures
// return both a result and the classified error.
func (uc *SendEmbedUseCase) Execute(ctx context.Context, cmd SendEmbedCommand) (*SendEmbedResult, error) {
	if cmd.Embed == nil {
		return nil, fmt.Errorf("embed cannot be nil")
	}

	eventID := uuid.New().String()

	uc.logger.WithFields(map[string]interface{}{
		"event_id": eventID,
		"title":    cmd.Embed.Title,
		"fields":   len(cmd.Embed.Fields),
		"force":    cmd.Force,
	}).Info("Starting embed send")

	// Business Rule 1: Validate the embed and any components
	violations := cmd.Embed.Validate()
	if cmd.Components != nil && !cmd.Components.IsEmpty() {
		violations = append(violations, cmd.Components.Validate()...)
	}
	if uc.metrics != nil {
		uc.metrics.RecordValidation(len(violations))
	}

	// Business Rule 2: Violations block the send unless forced
	if len(violations) > 0 {
		if !cmd.Force {
			uc.logger.WithFields(map[string]interface{}{
				"event_id":   eventID,
				"violations": len(violations),
			}).Warn("Send blocked by validation")

			if uc.metrics != nil {
				uc.metrics.RecordSendBlocked()
			}
			return &SendEmbedResult{
				Success:    false,
				Violations: violations,
				EventID:    eventID,
				Message:    "Embed failed validation",
				SentAt:     time.Now(),
			}, nil
		}

		uc.logger.WithFields(map[string]interface{}{
			"event_id":   eventID,
			"violations": len(violations),
		}).Warn("Sending despite validation violations")
		if uc.metrics != nil {
			uc.metrics.RecordForcedSend()
		}
	}

	// Business Rule 3: Resolve the destination, command overrides settings
	webhookURL, username, avatarURL := uc.resolveDestination(ctx, cmd)

	components := cmd.Components
	if components != nil && components.IsEmpty() {
		components = nil
	}
	payload := domain.NewMessagePayload(cmd.Embed, username, avatarURL, components)

	// Business Rule 4: Single dispatch attempt, no retries
	start := time.Now()
	err := uc.sender.Send(ctx, webhookURL, payload)
	duration := time.Since(start)

	if err != nil {
		return uc.classifyFailure(eventID, violations, err, duration)
	}

	// Business Rule 5: Only accepted sends enter the history
	if histErr := uc.historyRepo.Append(ctx, cmd.Embed); histErr != nil {
		uc.logger.WithError(histErr).WithField("event_id", eventID).Error("Failed to record send in history")
	}

	if uc.metrics != nil {
		payloadBytes, _ := json.Marshal(payload)
		uc.metrics.RecordSendAccepted(duration.Seconds(), len(payloadBytes))
	}

	uc.logger.WithFields(map[string]interface{}{
		"event_id": eventID,
		"duration": duration.String(),
	}).Info("Embed sent successfully")

	return &SendEmbedResult{
		Success:    true,
		Violations: violations,
		EventID:    eventID,
		Message:    "Embed sent successfully",
		SentAt:     time.Now(),
	}, nil
}

// resolveDestination merges the per-command destination overrides with the
// stored settings. A failed settings read degrades to command values only.
func (uc *SendEmbedUseCase) resolveDestination(ctx context.Context, cmd SendEmbedCommand) (webhookURL, username, avatarURL string) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to read webhook settings, using command values")
		return cmd.WebhookURL, cmd.Username, cmd.AvatarURL
	}

	webhookURL = cmd.WebhookURL
	if webhookURL == "" {
		webhookURL = settings.URL
	}
	username = cmd.Username
	if username == "" {
		username = settings.Username
	}
	avatarURL = cmd.AvatarURL
	if avatarURL == "" {
		avatarURL = settings.AvatarURL
	}
	return webhookURL, username, avatarURL
}

// classifyFailure maps a dispatch error onto the result shape.
func (uc *SendEmbedUseCase) classifyFailure(eventID string, violations []string, err error, duration time.Duration) (*SendEmbedResult, error) {
	result := &SendEmbedResult{
		Success:    false,
		Violations: violations,
		EventID:    eventID,
		SentAt:     time.Now(),
	}

	var rejection *domain.RemoteRejectedError
	if errors.As(err, &rejection) {
		result.StatusCode = rejection.StatusCode
		result.Message = rejection.Message
		uc.logger.WithFields(map[string]interface{}{
			"event_id": eventID,
			"status":   rejection.StatusCode,
			"message":  rejection.Message,
		}).Error("Discord rejected the embed")

		if uc.metrics != nil {
			uc.metrics.RecordSendRejected(fmt.Sprintf("%d", rejection.StatusCode), duration.Seconds())
		}
		return result, err
	}

	var transport *domain.TransportError
	if errors.As(err, &transport) {
		result.Message = "Failed to reach Discord"
		uc.logger.WithError(err).WithField("event_id", eventID).Error("Embed dispatch transport failure")

		if uc.metrics != nil {
			uc.metrics.RecordTransportError()
		}
		return result, err
	}

	result.Message = err.Error()
	uc.logger.WithError(err).WithField("event_id", eventID).Error("Embed dispatch failed before sending")
	return result, err
}

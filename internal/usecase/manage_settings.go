package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
)

// ManageSettingsUseCase orchestrates the stored webhook destination.
type ManageSettingsUseCase struct {
	settingsRepo domain.SettingsRepository
	logger       logger.Logger
}

// NewManageSettingsUseCase creates a new manage settings use case.
func NewManageSettingsUseCase(settingsRepo domain.SettingsRepository, logger logger.Logger) *ManageSettingsUseCase {
	return &ManageSettingsUseCase{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get returns the stored webhook settings.
func (uc *ManageSettingsUseCase) Get(ctx context.Context) (domain.WebhookSettings, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to read webhook settings")
		return domain.WebhookSettings{}, err
	}
	return settings, nil
}

// Update validates and persists the webhook settings record.
func (uc *ManageSettingsUseCase) Update(ctx context.Context, settings domain.WebhookSettings) error {
	settings.URL = strings.TrimSpace(settings.URL)
	settings.Username = strings.TrimSpace(settings.Username)
	settings.AvatarURL = strings.TrimSpace(settings.AvatarURL)

	if violations := settings.Validate(); len(violations) > 0 {
		return fmt.Errorf("invalid webhook settings: %s", strings.Join(violations, "; "))
	}

	if err := uc.settingsRepo.Update(ctx, settings); err != nil {
		uc.logger.WithError(err).Error("Failed to persist webhook settings")
		return err
	}

	uc.logger.WithField("has_url", settings.URL != "").Info("Webhook settings updated")
	return nil
}

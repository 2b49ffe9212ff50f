package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
	"github.com/oniisama/embedforge/pkg/metrics"
)

// ManageTemplatesUseCase orchestrates template storage operations.
type ManageTemplatesUseCase struct {
	templateRepo domain.TemplateRepository
	metrics      *metrics.EmbedMetrics
	logger       logger.Logger
}

// NewManageTemplatesUseCase creates a new manage templates use case. The
// metrics recorder may be nil.
func NewManageTemplatesUseCase(templateRepo domain.TemplateRepository, m *metrics.EmbedMetrics, logger logger.Logger) *ManageTemplatesUseCase {
	return &ManageTemplatesUseCase{
		templateRepo: templateRepo,
		metrics:      m,
		logger:       logger,
	}
}

// SaveTemplateCommand represents the command to save a template.
type SaveTemplateCommand struct {
	Name        string
	Description string
	Embed       *domain.Embed
}

// Save stores a template, replacing any template with the same name. The
// embed snapshot is saved as-is; templates may hold work in progress, so
// validity is not required.
func (uc *ManageTemplatesUseCase) Save(ctx context.Context, cmd SaveTemplateCommand) error {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if cmd.Embed == nil {
		return fmt.Errorf("template embed cannot be nil")
	}

	template := domain.Template{
		Name:        name,
		Description: cmd.Description,
		Embed:       cmd.Embed,
	}

	if err := uc.templateRepo.Save(ctx, template); err != nil {
		uc.logger.WithError(err).WithField("name", name).Error("Failed to save template")
		return err
	}

	if uc.metrics != nil {
		uc.metrics.RecordTemplateSaved()
	}
	uc.logger.WithField("name", name).Info("Template saved")
	return nil
}

// ListTemplatesResult represents the stored templates plus the number of
// records dropped because they could not be decoded.
type ListTemplatesResult struct {
	Templates []domain.Template
	Dropped   int
}

// List retrieves all stored templates.
func (uc *ManageTemplatesUseCase) List(ctx context.Context) (*ListTemplatesResult, error) {
	templates, dropped, err := uc.templateRepo.List(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to list templates")
		return nil, err
	}

	if dropped > 0 {
		uc.logger.WithField("dropped", dropped).Warn("Template store contained undecodable records")
	}

	return &ListTemplatesResult{Templates: templates, Dropped: dropped}, nil
}

// Get returns a detached copy of the named template.
func (uc *ManageTemplatesUseCase) Get(ctx context.Context, name string) (*domain.Template, error) {
	result, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, template := range result.Templates {
		if template.Name == name {
			// Stored records are allowed to lack an embed; Clone is nil-safe.
			template.Embed = template.Embed.Clone()
			return &template, nil
		}
	}

	return nil, fmt.Errorf("template not found: %s", name)
}

// Delete removes the named template.
func (uc *ManageTemplatesUseCase) Delete(ctx context.Context, name string) error {
	if err := uc.templateRepo.Delete(ctx, name); err != nil {
		uc.logger.WithError(err).WithField("name", name).Error("Failed to delete template")
		return err
	}

	if uc.metrics != nil {
		uc.metrics.RecordTemplateDeleted()
	}
	uc.logger.WithField("name", name).Info("Template deleted")
	return nil
}

package usecase

import (
	"context"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
	"github.com/oniisama/embedforge/pkg/metrics"
)

// GetHistoryUseCase retrieves the stored send history.
type GetHistoryUseCase struct {
	historyRepo domain.HistoryRepository
	metrics     *metrics.EmbedMetrics
	logger      logger.Logger
}

// NewGetHistoryUseCase creates a new get history use case. The metrics
// recorder may be nil.
func NewGetHistoryUseCase(historyRepo domain.HistoryRepository, m *metrics.EmbedMetrics, logger logger.Logger) *GetHistoryUseCase {
	return &GetHistoryUseCase{
		historyRepo: historyRepo,
		metrics:     m,
		logger:      logger,
	}
}

// GetHistoryResult represents the stored history, most-recent-last, plus
// the number of records dropped because they could not be decoded.
type GetHistoryResult struct {
	Embeds  []*domain.Embed
	Dropped int
}

// Execute retrieves the send history.
func (uc *GetHistoryUseCase) Execute(ctx context.Context) (*GetHistoryResult, error) {
	embeds, dropped, err := uc.historyRepo.List(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to retrieve send history")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordHistoryDrops(dropped)
	}
	if dropped > 0 {
		uc.logger.WithField("dropped", dropped).Warn("History contained undecodable records")
	}

	uc.logger.WithField("count", len(embeds)).Debug("Send history retrieved")

	return &GetHistoryResult{Embeds: embeds, Dropped: dropped}, nil
}

// Clear removes all stored history records.
func (uc *GetHistoryUseCase) Clear(ctx context.Context) error {
	if err := uc.historyRepo.Clear(ctx); err != nil {
		uc.logger.WithError(err).Error("Failed to clear send history")
		return err
	}

	uc.logger.Info("Send history cleared")
	return nil
}

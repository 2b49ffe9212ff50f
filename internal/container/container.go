package container

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/oniisama/embedforge/internal/adapters/discord"
	"github.com/oniisama/embedforge/internal/adapters/httpapi"
	"github.com/oniisama/embedforge/internal/infrastructure/storage"
	"github.com/oniisama/embedforge/internal/usecase"
	"github.com/oniisama/embedforge/pkg/config"
	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
	"github.com/oniisama/embedforge/pkg/metrics"
)

// Container holds all application dependencies
type Container struct {
	// Configuration and infrastructure
	Config *config.Config
	Logger logger.Logger

	// Repositories (data layer)
	HistoryRepo  domain.HistoryRepository
	TemplateRepo domain.TemplateRepository
	SettingsRepo domain.SettingsRepository

	// Dispatch
	Sender domain.MessageSender

	// Metrics
	Metrics *metrics.EmbedMetrics

	// Use cases (application layer)
	SendEmbedUC       *usecase.SendEmbedUseCase
	ExportEmbedUC     *usecase.ExportEmbedUseCase
	GetHistoryUC      *usecase.GetHistoryUseCase
	ManageTemplatesUC *usecase.ManageTemplatesUseCase
	ManageSettingsUC  *usecase.ManageSettingsUseCase

	// Services (presentation layer)
	APIServer     *httpapi.Server
	MetricsServer *metrics.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log logger.Logger) *Container {
	container := &Container{
		Config: cfg,
		Logger: log,
	}

	container.setupRepositories()
	container.setupSender()
	container.setupMetrics()
	container.setupUseCases()
	container.setupServices()

	return container
}

// setupRepositories initializes the JSON file stores
func (c *Container) setupRepositories() {
	c.Logger.WithField("dir", c.Config.Storage.Dir).Info("Setting up storage")

	fs := afero.NewOsFs()
	dir := c.Config.Storage.Dir
	limit := c.Config.Storage.HistoryLimit

	c.HistoryRepo = storage.NewHistoryStore(fs, dir, limit, c.Logger)
	c.TemplateRepo = storage.NewTemplateStore(fs, dir, c.Logger)
	c.SettingsRepo = storage.NewSettingsStore(fs, dir, c.Logger)

	c.Logger.Info("Storage initialized")
}

// setupSender initializes the Discord dispatch adapter
func (c *Container) setupSender() {
	c.Sender = discord.NewMessageSender(&c.Config.Discord, c.Logger)
}

// setupMetrics initializes the Prometheus collectors
func (c *Container) setupMetrics() {
	if !c.Config.Metrics.Enabled {
		return
	}
	c.Metrics = metrics.NewEmbedMetrics(prometheus.DefaultRegisterer)
}

// setupUseCases initializes use case implementations
func (c *Container) setupUseCases() {
	c.Logger.Info("Setting up use cases")

	c.SendEmbedUC = usecase.NewSendEmbedUseCase(
		c.SettingsRepo,
		c.HistoryRepo,
		c.Sender,
		c.Metrics,
		c.Logger,
	)

	c.ExportEmbedUC = usecase.NewExportEmbedUseCase(c.Metrics, c.Logger)

	c.GetHistoryUC = usecase.NewGetHistoryUseCase(c.HistoryRepo, c.Metrics, c.Logger)

	c.ManageTemplatesUC = usecase.NewManageTemplatesUseCase(c.TemplateRepo, c.Metrics, c.Logger)

	c.ManageSettingsUC = usecase.NewManageSettingsUseCase(c.SettingsRepo, c.Logger)

	c.Logger.Info("Use cases initialized")
}

// setupServices initializes the HTTP surfaces
func (c *Container) setupServices() {
	c.Logger.Info("Setting up services")

	c.APIServer = httpapi.NewServer(
		&c.Config.Server,
		c.SendEmbedUC,
		c.ExportEmbedUC,
		c.GetHistoryUC,
		c.ManageTemplatesUC,
		c.ManageSettingsUC,
		c.Logger,
	)

	if c.Config.Metrics.Enabled {
		c.MetricsServer = metrics.NewServer(c.Config.Metrics.Port, c.Logger)
	}

	c.Logger.Info("Services initialized")
}

// Start starts the HTTP surfaces
func (c *Container) Start() error {
	if c.MetricsServer != nil {
		if err := c.MetricsServer.Start(); err != nil {
			return err
		}
	}
	return c.APIServer.Start()
}

// Shutdown performs cleanup of container resources
func (c *Container) Shutdown(ctx context.Context) {
	c.Logger.Info("Shutting down container")

	if err := c.APIServer.Stop(ctx); err != nil {
		c.Logger.WithError(err).Error("Error stopping API server")
	}

	if c.MetricsServer != nil {
		if err := c.MetricsServer.Stop(ctx); err != nil {
			c.Logger.WithError(err).Error("Error stopping metrics server")
		}
	}

	c.Logger.Info("Container shutdown complete")
}

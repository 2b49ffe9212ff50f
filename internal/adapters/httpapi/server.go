package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oniisama/embedforge/internal/usecase"
	"github.com/oniisama/embedforge/pkg/config"
	"github.com/oniisama/embedforge/pkg/logger"
)

// Server exposes the embed composer over a local REST surface.
type Server struct {
	server *http.Server
	logger logger.Logger

	sendEmbed   *usecase.SendEmbedUseCase
	exportEmbed *usecase.ExportEmbedUseCase
	getHistory  *usecase.GetHistoryUseCase
	templates   *usecase.ManageTemplatesUseCase
	settings    *usecase.ManageSettingsUseCase
}

// NewServer creates the API server and wires its routes.
func NewServer(
	cfg *config.ServerConfig,
	sendEmbed *usecase.SendEmbedUseCase,
	exportEmbed *usecase.ExportEmbedUseCase,
	getHistory *usecase.GetHistoryUseCase,
	templates *usecase.ManageTemplatesUseCase,
	settings *usecase.ManageSettingsUseCase,
	log logger.Logger,
) *Server {
	s := &Server{
		logger:      log,
		sendEmbed:   sendEmbed,
		exportEmbed: exportEmbed,
		getHistory:  getHistory,
		templates:   templates,
		settings:    settings,
	}

	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler builds the routed, CORS-wrapped handler. Exposed so tests can
// drive the API without a listening socket.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/embeds/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/embeds/preview", s.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/embeds/export", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/embeds/send", s.handleSend).Methods(http.MethodPost)

	api.HandleFunc("/history", s.handleHistoryList).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistoryClear).Methods(http.MethodDelete)

	api.HandleFunc("/templates", s.handleTemplateList).Methods(http.MethodGet)
	api.HandleFunc("/templates", s.handleTemplateSave).Methods(http.MethodPost)
	api.HandleFunc("/templates/{name}", s.handleTemplateGet).Methods(http.MethodGet)
	api.HandleFunc("/templates/{name}", s.handleTemplateDelete).Methods(http.MethodDelete)

	api.HandleFunc("/settings", s.handleSettingsGet).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleSettingsUpdate).Methods(http.MethodPut)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.WithField("address", s.server.Addr).Info("Starting API server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server failed")
		}
	}()

	return nil
}

// Stop gracefully stops the API server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.server.Shutdown(ctx)
}

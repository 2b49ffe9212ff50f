package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oniisama/embedforge/pkg/logger"
)

// Server serves the Prometheus scrape endpoint on its own port, separate
// from the API surface.
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewServer builds the scrape server. Routes are /metrics and a trivial
// /health probe.
func NewServer(port int, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start begins listening in the background. Listen errors other than a
// normal shutdown are logged, not returned.
func (s *Server) Start() error {
	s.logger.WithField("address", s.server.Addr).Info("Starting metrics server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Metrics server failed")
		}
	}()

	return nil
}

// Stop drains in-flight scrapes and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping metrics server")
	return s.server.Shutdown(ctx)
}

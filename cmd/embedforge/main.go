package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oniisama/embedforge/internal/container"
	"github.com/oniisama/embedforge/pkg/config"
	"github.com/oniisama/embedforge/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.Environment)
	log.Info("Starting embedforge...")

	// Build the dependency container
	c := container.NewContainer(cfg, log)

	log.WithFields(map[string]interface{}{
		"address":     cfg.Address(),
		"environment": cfg.Environment,
		"log_level":   cfg.LogLevel,
		"storage_dir": cfg.Storage.Dir,
	}).Info("Server configuration loaded")

	if err := c.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start servers")
	}

	// Listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	c.Shutdown(ctx)

	log.Info("embedforge shutdown complete")
}

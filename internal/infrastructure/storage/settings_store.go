package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
)

const settingsFileName = "webhook_settings.json"

// SettingsStore is a JSON-file implementation of domain.SettingsRepository.
// A single record, last-write-wins.
type SettingsStore struct {
	fs     afero.Fs
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

// NewSettingsStore creates a settings store rooted at dir.
func NewSettingsStore(fs afero.Fs, dir string, log logger.Logger) *SettingsStore {
	return &SettingsStore{
		fs:     fs,
		path:   filepath.Join(dir, settingsFileName),
		logger: log,
	}
}

// Get returns the stored settings. A missing or undecodable file yields
// the zero record.
func (s *SettingsStore) Get(ctx context.Context) (domain.WebhookSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings domain.WebhookSettings

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if exists, _ := afero.Exists(s.fs, s.path); exists {
			s.logger.WithError(err).WithField("path", s.path).Error("Failed to read settings file")
		}
		return settings, nil
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("Settings file is undecodable, using defaults")
		return domain.WebhookSettings{}, nil
	}

	return settings, nil
}

// Update persists the settings record, replacing whatever was there.
func (s *SettingsStore) Update(ctx context.Context, settings domain.WebhookSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

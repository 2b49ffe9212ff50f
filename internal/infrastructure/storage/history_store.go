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

const historyFileName = "embed_history.json"

// HistoryStore is a JSON-file implementation of domain.HistoryRepository.
// The file holds a flat array of embed documents, most-recent-last, and is
// truncated to the newest limit entries on every save.
type HistoryStore struct {
	fs     afero.Fs
	path   string
	limit  int
	logger logger.Logger
	mu     sync.Mutex
}

// NewHistoryStore creates a history store rooted at dir.
func NewHistoryStore(fs afero.Fs, dir string, limit int, log logger.Logger) *HistoryStore {
	return &HistoryStore{
		fs:     fs,
		path:   filepath.Join(dir, historyFileName),
		limit:  limit,
		logger: log,
	}
}

// Append adds a snapshot to the end of the history and persists it.
func (s *HistoryStore) Append(ctx context.Context, embed *domain.Embed) error {
	if embed == nil {
		return fmt.Errorf("embed cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	embeds, _ := s.load()
	embeds = append(embeds, embed.Clone())

	if len(embeds) > s.limit {
		embeds = embeds[len(embeds)-s.limit:]
	}

	return s.save(embeds)
}

// List returns the stored snapshots in order, plus the number of records
// dropped because they could not be decoded.
func (s *HistoryStore) List(ctx context.Context) ([]*domain.Embed, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	embeds, dropped := s.load()
	return embeds, dropped, nil
}

// Clear removes every stored snapshot.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save([]*domain.Embed{})
}

// load reads the history file. A missing file is an empty history; an
// unreadable file or non-array document degrades to an empty history with
// a logged error; a malformed item inside the array is skipped and
// counted rather than resetting the whole store.
func (s *HistoryStore) load() ([]*domain.Embed, int) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if exists, _ := afero.Exists(s.fs, s.path); exists {
			s.logger.WithError(err).WithField("path", s.path).Error("Failed to read history file")
		}
		return nil, 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("History file is not a JSON array, treating as empty")
		return nil, 0
	}

	var embeds []*domain.Embed
	dropped := 0
	for i, item := range items {
		var embed domain.Embed
		if err := json.Unmarshal(item, &embed); err != nil {
			dropped++
			s.logger.WithError(err).WithField("index", i).Warn("Skipping undecodable history record")
			continue
		}
		embeds = append(embeds, &embed)
	}

	return embeds, dropped
}

func (s *HistoryStore) save(embeds []*domain.Embed) error {
	data, err := json.MarshalIndent(embeds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

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

const templatesFileName = "templates.json"

// TemplateStore is a JSON-file implementation of domain.TemplateRepository.
// The file holds a flat array of {name, description, embed} documents.
type TemplateStore struct {
	fs     afero.Fs
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

// NewTemplateStore creates a template store rooted at dir.
func NewTemplateStore(fs afero.Fs, dir string, log logger.Logger) *TemplateStore {
	return &TemplateStore{
		fs:     fs,
		path:   filepath.Join(dir, templatesFileName),
		logger: log,
	}
}

// Save persists a template. An existing template with the same name is
// replaced; the model enforces no cap on the template count.
func (s *TemplateStore) Save(ctx context.Context, template domain.Template) error {
	if template.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if template.Embed == nil {
		return fmt.Errorf("template embed cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, _ := s.load()

	template.Embed = template.Embed.Clone()
	replaced := false
	for i := range templates {
		if templates[i].Name == template.Name {
			templates[i] = template
			replaced = true
			break
		}
	}
	if !replaced {
		templates = append(templates, template)
	}

	return s.save(templates)
}

// List returns the stored templates plus the number of records dropped
// because they could not be decoded.
func (s *TemplateStore) List(ctx context.Context) ([]domain.Template, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, dropped := s.load()
	return templates, dropped, nil
}

// Delete removes the template with the given name.
func (s *TemplateStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, _ := s.load()

	remaining := templates[:0]
	found := false
	for _, t := range templates {
		if t.Name == name {
			found = true
			continue
		}
		remaining = append(remaining, t)
	}

	if !found {
		return fmt.Errorf("template not found: %s", name)
	}

	return s.save(remaining)
}

func (s *TemplateStore) load() ([]domain.Template, int) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if exists, _ := afero.Exists(s.fs, s.path); exists {
			s.logger.WithError(err).WithField("path", s.path).Error("Failed to read templates file")
		}
		return nil, 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("Templates file is not a JSON array, treating as empty")
		return nil, 0
	}

	var templates []domain.Template
	dropped := 0
	for i, item := range items {
		var template domain.Template
		if err := json.Unmarshal(item, &template); err != nil {
			dropped++
			s.logger.WithError(err).WithField("index", i).Warn("Skipping undecodable template record")
			continue
		}
		// A record without an embed decodes but is unusable as a template.
		if template.Embed == nil {
			dropped++
			s.logger.WithField("index", i).Warn("Skipping template record without an embed")
			continue
		}
		templates = append(templates, template)
	}

	return templates, dropped
}

func (s *TemplateStore) save(templates []domain.Template) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode templates: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write templates file: %w", err)
	}

	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", "test")
}

type fakeSettingsRepo struct {
	settings domain.WebhookSettings
	getErr   error
	updates  []domain.WebhookSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (domain.WebhookSettings, error) {
	return f.settings, f.getErr
}

func (f *fakeSettingsRepo) Update(ctx context.Context, settings domain.WebhookSettings) error {
	f.updates = append(f.updates, settings)
	f.settings = settings
	return nil
}

type fakeHistoryRepo struct {
	appended  []*domain.Embed
	listed    []*domain.Embed
	dropped   int
	appendErr error
	listErr   error
	cleared   bool
}

func (f *fakeHistoryRepo) Append(ctx context.Context, embed *domain.Embed) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, embed)
	return nil
}

func (f *fakeHistoryRepo) List(ctx context.Context) ([]*domain.Embed, int, error) {
	return f.listed, f.dropped, f.listErr
}

func (f *fakeHistoryRepo) Clear(ctx context.Context) error {
	f.cleared = true
	f.listed = nil
	return nil
}

type fakeTemplateRepo struct {
	templates []domain.Template
	saveErr   error
}

func (f *fakeTemplateRepo) Save(ctx context.Context, template domain.Template) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.templates {
		if f.templates[i].Name == template.Name {
			f.templates[i] = template
			return nil
		}
	}
	f.templates = append(f.templates, template)
	return nil
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]domain.Template, int, error) {
	return f.templates, 0, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, name string) error {
	for i := range f.templates {
		if f.templates[i].Name == name {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("template not found: %s", name)
}

type fakeSender struct {
	sendErr     error
	calls       int
	lastURL     string
	lastPayload domain.MessagePayload
}

func (f *fakeSender) Send(ctx context.Context, webhookURL string, payload domain.MessagePayload) error {
	f.calls++
	f.lastURL = webhookURL
	f.lastPayload = payload
	return f.sendErr
}

func validEmbed() *domain.Embed {
	return &domain.Embed{
		Title:       "Release notes",
		Description: "Bug fixes and improvements",
		Color:       "#5865F2",
		Fields: []domain.EmbedField{
			{Name: "Version", Value: "1.2.3", Inline: true},
		},
	}
}

func invalidEmbed() *domain.Embed {
	embed := validEmbed()
	embed.Fields = append(embed.Fields, domain.EmbedField{Name: "", Value: "orphan"})
	return embed
}

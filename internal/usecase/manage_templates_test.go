package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oniisama/embedforge/pkg/domain"
)

func templatesUseCase() (*ManageTemplatesUseCase, *fakeTemplateRepo) {
	repo := &fakeTemplateRepo{}
	return NewManageTemplatesUseCase(repo, nil, testLogger()), repo
}

func TestManageTemplates_SaveAndList(t *testing.T) {
	uc, _ := templatesUseCase()

	require.NoError(t, uc.Save(context.Background(), SaveTemplateCommand{
		Name:        "announcement",
		Description: "server announcements",
		Embed:       validEmbed(),
	}))

	result, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Templates, 1)
	assert.Equal(t, "announcement", result.Templates[0].Name)
}

func TestManageTemplates_SaveTrimsName(t *testing.T) {
	uc, repo := templatesUseCase()

	require.NoError(t, uc.Save(context.Background(), SaveTemplateCommand{
		Name:  "  padded  ",
		Embed: validEmbed(),
	}))

	require.Len(t, repo.templates, 1)
	assert.Equal(t, "padded", repo.templates[0].Name)
}

func TestManageTemplates_SaveRejectsInvalidInput(t *testing.T) {
	uc, _ := templatesUseCase()

	assert.Error(t, uc.Save(context.Background(), SaveTemplateCommand{Embed: validEmbed()}))
	assert.Error(t, uc.Save(context.Background(), SaveTemplateCommand{Name: "   ", Embed: validEmbed()}))
	assert.Error(t, uc.Save(context.Background(), SaveTemplateCommand{Name: "no embed"}))
}

func TestManageTemplates_SaveAcceptsInvalidEmbed(t *testing.T) {
	uc, _ := templatesUseCase()

	// Templates hold drafts; an embed with violations is still storable.
	assert.NoError(t, uc.Save(context.Background(), SaveTemplateCommand{
		Name:  "draft",
		Embed: invalidEmbed(),
	}))
}

func TestManageTemplates_GetReturnsDetachedCopy(t *testing.T) {
	uc, repo := templatesUseCase()

	require.NoError(t, uc.Save(context.Background(), SaveTemplateCommand{
		Name:  "detach",
		Embed: validEmbed(),
	}))

	got, err := uc.Get(context.Background(), "detach")
	require.NoError(t, err)

	got.Embed.Title = "mutated"
	assert.Equal(t, "Release notes", repo.templates[0].Embed.Title)
}

func TestManageTemplates_GetToleratesRecordWithoutEmbed(t *testing.T) {
	repo := &fakeTemplateRepo{templates: []domain.Template{{Name: "broken"}}}
	uc := NewManageTemplatesUseCase(repo, nil, testLogger())

	got, err := uc.Get(context.Background(), "broken")

	require.NoError(t, err)
	assert.Equal(t, "broken", got.Name)
	assert.Nil(t, got.Embed)
}

func TestManageTemplates_GetMissing(t *testing.T) {
	uc, _ := templatesUseCase()

	_, err := uc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template not found")
}

func TestManageTemplates_Delete(t *testing.T) {
	uc, repo := templatesUseCase()

	require.NoError(t, uc.Save(context.Background(), SaveTemplateCommand{Name: "x", Embed: validEmbed()}))
	require.NoError(t, uc.Delete(context.Background(), "x"))
	assert.Empty(t, repo.templates)

	assert.Error(t, uc.Delete(context.Background(), "x"))
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", "test")
}

func sampleEmbed(title string) *domain.Embed {
	return &domain.Embed{
		Title:       title,
		Description: "description",
		Color:       "#5865F2",
		Footer:      "footer",
		Timestamp:   true,
		Fields: []domain.EmbedField{
			{Name: "A", Value: "B", Inline: true},
			{Name: "C", Value: "D", Inline: false},
		},
	}
}

func TestHistoryStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields int
	}{
		{name: "zero fields", fields: 0},
		{name: "maximum fields", fields: domain.MaxFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			store := NewHistoryStore(fs, "/data", 50, testLogger())

			embed := &domain.Embed{
				Title:      "round trip",
				Color:      "#3BA55C",
				AuthorIcon: "https://example.com/a.png",
			}
			for i := 0; i < tt.fields; i++ {
				embed.Fields = append(embed.Fields, domain.EmbedField{
					Name:   fmt.Sprintf("name-%d", i),
					Value:  fmt.Sprintf("value-%d", i),
					Inline: i%3 == 0,
				})
			}

			require.NoError(t, store.Append(context.Background(), embed))

			loaded, dropped, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Zero(t, dropped)
			require.Len(t, loaded, 1)
			assert.Equal(t, embed, loaded[0])
		})
	}
}

func TestHistoryStore_CapsAtLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewHistoryStore(fs, "/data", 50, testLogger())

	for i := 0; i < 60; i++ {
		require.NoError(t, store.Append(context.Background(), sampleEmbed(fmt.Sprintf("embed-%d", i))))
	}

	loaded, _, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 50)

	// Most-recent-last: the oldest 10 were dropped.
	assert.Equal(t, "embed-10", loaded[0].Title)
	assert.Equal(t, "embed-59", loaded[49].Title)
}

func TestHistoryStore_RetainsMinOfNAndLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewHistoryStore(fs, "/data", 50, testLogger())

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(context.Background(), sampleEmbed(fmt.Sprintf("embed-%d", i))))
	}

	loaded, _, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestHistoryStore_SkipsMalformedRecords(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `[{"title":"good"},{"title":42},{"title":"also good"}]`
	require.NoError(t, afero.WriteFile(fs, "/data/embed_history.json", []byte(content), 0o644))

	store := NewHistoryStore(fs, "/data", 50, testLogger())

	loaded, dropped, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, loaded, 2)
	assert.Equal(t, "good", loaded[0].Title)
	assert.Equal(t, "also good", loaded[1].Title)
}

func TestHistoryStore_GarbageFileTreatedAsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/embed_history.json", []byte("not json at all"), 0o644))

	store := NewHistoryStore(fs, "/data", 50, testLogger())

	loaded, dropped, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, loaded)
}

func TestHistoryStore_ForwardCompatibleDecode(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `[{"title":"from the future","brand_new_key":{"nested":true}}]`
	require.NoError(t, afero.WriteFile(fs, "/data/embed_history.json", []byte(content), 0o644))

	store := NewHistoryStore(fs, "/data", 50, testLogger())

	loaded, dropped, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, loaded, 1)
	assert.Equal(t, "from the future", loaded[0].Title)
	assert.Empty(t, loaded[0].Description)
}

func TestHistoryStore_AppendSnapshotsAreDetached(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewHistoryStore(fs, "/data", 50, testLogger())

	embed := sampleEmbed("before")
	require.NoError(t, store.Append(context.Background(), embed))
	embed.Title = "after"
	embed.Fields[0].Name = "mutated"

	loaded, _, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "before", loaded[0].Title)
	assert.Equal(t, "A", loaded[0].Fields[0].Name)
}

func TestHistoryStore_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewHistoryStore(fs, "/data", 50, testLogger())

	require.NoError(t, store.Append(context.Background(), sampleEmbed("one")))
	require.NoError(t, store.Clear(context.Background()))

	loaded, _, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestTemplateStore_SaveAndList(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewTemplateStore(fs, "/data", testLogger())

	template := domain.Template{
		Name:        "announcement",
		Description: "server announcements",
		Embed:       sampleEmbed("announcement"),
	}
	require.NoError(t, store.Save(context.Background(), template))

	templates, dropped, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, templates, 1)
	assert.Equal(t, "announcement", templates[0].Name)
	assert.Equal(t, "server announcements", templates[0].Description)
	assert.Equal(t, "announcement", templates[0].Embed.Title)
}

func TestTemplateStore_SaveReplacesSameName(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewTemplateStore(fs, "/data", testLogger())

	require.NoError(t, store.Save(context.Background(), domain.Template{Name: "t", Embed: sampleEmbed("v1")}))
	require.NoError(t, store.Save(context.Background(), domain.Template{Name: "t", Embed: sampleEmbed("v2")}))

	templates, _, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "v2", templates[0].Embed.Title)
}

func TestTemplateStore_Delete(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewTemplateStore(fs, "/data", testLogger())

	require.NoError(t, store.Save(context.Background(), domain.Template{Name: "keep", Embed: sampleEmbed("keep")}))
	require.NoError(t, store.Save(context.Background(), domain.Template{Name: "drop", Embed: sampleEmbed("drop")}))

	require.NoError(t, store.Delete(context.Background(), "drop"))

	templates, _, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "keep", templates[0].Name)

	assert.Error(t, store.Delete(context.Background(), "missing"))
}

func TestTemplateStore_DropsRecordsWithoutEmbed(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `[{"name":"usable","embed":{"title":"ok"}},{"name":"no embed"},{"name":"null embed","embed":null}]`
	require.NoError(t, afero.WriteFile(fs, "/data/templates.json", []byte(content), 0o644))

	store := NewTemplateStore(fs, "/data", testLogger())

	templates, dropped, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	require.Len(t, templates, 1)
	assert.Equal(t, "usable", templates[0].Name)
}

func TestTemplateStore_RejectsInvalidInput(t *testing.T) {
	store := NewTemplateStore(afero.NewMemMapFs(), "/data", testLogger())

	assert.Error(t, store.Save(context.Background(), domain.Template{Embed: sampleEmbed("x")}))
	assert.Error(t, store.Save(context.Background(), domain.Template{Name: "x"}))
}

func TestSettingsStore_MissingFileYieldsZeroRecord(t *testing.T) {
	store := NewSettingsStore(afero.NewMemMapFs(), "/data", testLogger())

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WebhookSettings{}, settings)
}

func TestSettingsStore_LastWriteWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewSettingsStore(fs, "/data", testLogger())

	first := domain.WebhookSettings{URL: "https://discord.com/api/webhooks/1", Username: "one"}
	second := domain.WebhookSettings{URL: "https://discord.com/api/webhooks/2", Username: "two", AvatarURL: "https://example.com/a.png"}

	require.NoError(t, store.Update(context.Background(), first))
	require.NoError(t, store.Update(context.Background(), second))

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, settings)

	// The persisted document keeps the documented shape.
	data, err := afero.ReadFile(fs, "/data/webhook_settings.json")
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "two", raw["username"])
	assert.Contains(t, raw, "avatar_url")
}

func TestSettingsStore_CorruptFileYieldsZeroRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/webhook_settings.json", []byte("{broken"), 0o644))

	store := NewSettingsStore(fs, "/data", testLogger())

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WebhookSettings{}, settings)
}

package email

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("loads json templates only", func(t *testing.T) {
		// Arrange
		store := storage.NewLocalFS(fstest.MapFS{
			"assets/templates/CA01_ACCOUNT_CREATION.json": {Data: []byte(`{"subject":"Welcome {{.display_name}}","text":"Hi {{.display_name}}"}`)},
			"assets/templates/README.md":                  {Data: []byte("ignored")},
		})

		// Act
		c, err := LoadCatalog(ctx, store, "assets", "templates/")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
		assert.True(t, c.Has(entity.TplCA01AccountCreation))
		assert.False(t, c.Has(entity.TplWI01InnovationWithdrawn))
	})

	t.Run("bad template fails the load", func(t *testing.T) {
		// Arrange
		store := storage.NewLocalFS(fstest.MapFS{
			"assets/templates/CA01_ACCOUNT_CREATION.json": {Data: []byte(`{"subject":"{{.x","text":"x"}`)},
		})

		// Act
		_, err := LoadCatalog(ctx, store, "assets", "templates/")

		// Assert
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		store := storage.NewLocalFS(fstest.MapFS{
			"assets/templates/CA01_ACCOUNT_CREATION.json": {Data: []byte(`{"subject":"x"}`)},
		})

		_, err := LoadCatalog(ctx, store, "assets", "templates/")

		assert.ErrorContains(t, err, "empty body")
	})

	t.Run("missing bucket is an empty catalog", func(t *testing.T) {
		c, err := LoadCatalog(ctx, storage.NewLocalFS(fstest.MapFS{}), "assets", "templates/")

		require.NoError(t, err)
		assert.Zero(t, c.Len())
	})
}

func TestCatalog_Render(t *testing.T) {
	c, err := NewCatalog(entity.EmailTemplate{
		ID:      entity.TplTH03NewThreadMessage,
		Subject: "New message in {{.thread_subject}}",
		HTML:    `<p>{{.sender}} wrote in <a href="{{.thread_url}}">{{.thread_subject}}</a>{{.missing}}</p>`,
		Text:    "{{.sender}} wrote{{.missing}}",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      entity.TemplateID
		params  map[string]string
		want    Rendered
		wantErr error
	}{
		{
			name:   "escapes html and zeroes missing keys",
			id:     entity.TplTH03NewThreadMessage,
			params: map[string]string{"thread_subject": "A&B", "sender": "<b>Q</b>", "thread_url": "https://app.example.test/t/1"},
			want: Rendered{
				Subject: "New message in A&B",
				HTML:    `<p>&lt;b&gt;Q&lt;/b&gt; wrote in <a href="https://app.example.test/t/1">A&amp;B</a></p>`,
				Text:    "<b>Q</b> wrote",
			},
		},
		{
			name:    "unknown template",
			id:      entity.TplCA01AccountCreation,
			wantErr: entity.ErrTemplateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := c.Render(tt.id, tt.params)

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

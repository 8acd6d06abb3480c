package seed

import (
	"context"
	"testing"

	"streamsite/internal/repository/memory"
	"streamsite/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := LoadDefaults()
	require.NoError(t, err)

	assert.NotEmpty(t, c.SiteSettings.SiteTitle)
	assert.Len(t, c.Streams, 2)
	assert.Len(t, c.Announcements, 3)
	assert.Len(t, c.Gallery, 8)

	featured := 0
	for _, s := range c.Streams {
		if s.IsFeatured {
			featured++
		}
		assert.True(t, validation.IsHTTPURL(s.URL), s.URL)
	}
	assert.Equal(t, 1, featured)

	for name, link := range c.SiteSettings.SocialLinks {
		assert.True(t, validation.IsHTTPURL(link), name)
	}
	assert.Equal(t, "#4A00E0", c.SiteSettings.ThemeSettings.PrimaryColor)
}

func TestParseContentInvalid(t *testing.T) {
	_, err := ParseContent([]byte("streams: [unterminated"))
	assert.Error(t, err)
}

func TestDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	c, err := LoadDefaults()
	require.NoError(t, err)

	require.NoError(t, Defaults(ctx, repos, c))
	require.NoError(t, Defaults(ctx, repos, c))

	streams, err := repos.Streams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, streams, 2)

	featured, err := repos.Streams.GetFeatured(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RENNSZ - Travel & IRL", featured.Name)

	announcements, err := repos.Announcements.List(ctx)
	require.NoError(t, err)
	require.Len(t, announcements, 3)
	assert.Equal(t, c.Announcements[0].Title, announcements[0].Title)

	images, err := repos.Gallery.List(ctx)
	require.NoError(t, err)
	assert.Len(t, images, 8)

	settings, err := repos.SiteSettings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.SiteSettings.SiteTitle, settings.SiteTitle)
	assert.Equal(t, "https://discord.gg/hUTXCaSdKC", settings.SocialLinks.Data()["discord"])
}

func TestDefaultsKeepsExistingSettings(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	c, err := LoadDefaults()
	require.NoError(t, err)

	custom := c.Settings()
	custom.SiteTitle = "Already configured"
	_, err = repos.SiteSettings.Initialize(ctx, custom)
	require.NoError(t, err)

	require.NoError(t, Defaults(ctx, repos, c))

	settings, err := repos.SiteSettings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Already configured", settings.SiteTitle)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	f := NewFactory(repos, 42)

	require.NoError(t, f.Announcements(ctx, 5))
	require.NoError(t, f.GalleryImages(ctx, 4))
	require.NoError(t, f.Streams(ctx, 3))

	announcements, err := repos.Announcements.List(ctx)
	require.NoError(t, err)
	assert.Len(t, announcements, 5)
	for _, a := range announcements {
		assert.NotEmpty(t, a.Title)
		if a.ImageURL != "" {
			assert.True(t, validation.IsHTTPURL(a.ImageURL))
		}
	}

	images, err := repos.Gallery.List(ctx)
	require.NoError(t, err)
	assert.Len(t, images, 4)
	for _, img := range images {
		assert.True(t, validation.IsHTTPURL(img.ImageURL))
	}

	_, err = repos.Streams.GetFeatured(ctx)
	assert.Error(t, err)
}

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"streamsite/internal/cache"
	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func defaultSettings() *models.SiteSettings {
	return &models.SiteSettings{
		SiteTitle:  "Stream Hub",
		FooterText: "Thanks for watching",
		SocialLinks: datatypes.NewJSONType(models.SocialLinks{
			"twitchMain": "https://twitch.tv/streamer",
		}),
		ThemeSettings: datatypes.NewJSONType(models.ThemeSettings{
			CurrentTheme: "default",
			PrimaryColor: "#4A00E0",
		}),
	}
}

func strPtr(s string) *string { return &s }

func TestSiteSettingsServiceGetBeforeInitialize(t *testing.T) {
	svc := NewSiteSettingsService(memory.New().SiteSettings, nil)
	_, err := svc.Get(context.Background())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSiteSettingsServiceInitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewSiteSettingsService(memory.New().SiteSettings, nil)

	first, err := svc.Initialize(ctx, defaultSettings())
	require.NoError(t, err)

	other := defaultSettings()
	other.SiteTitle = "Something else"
	second, err := svc.Initialize(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, first.SiteTitle, second.SiteTitle)
	assert.Equal(t, models.SiteSettingsID, second.ID)
}

func TestSiteSettingsServiceUpdateMissingRow(t *testing.T) {
	svc := NewSiteSettingsService(memory.New().SiteSettings, nil)
	_, err := svc.Update(context.Background(), models.SiteSettingsPatch{SiteTitle: strPtr("x")})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSiteSettingsServiceUpdateValidation(t *testing.T) {
	svc := NewSiteSettingsService(memory.New().SiteSettings, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, models.SiteSettingsPatch{})
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.Update(ctx, models.SiteSettingsPatch{
		SocialLinks:   &models.SocialLinks{"discord": "discord"},
		ThemeSettings: &models.ThemeSettings{PrimaryColor: "purple"},
	})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["socialLinks.discord"])
	assert.True(t, fields["themeSettings.primaryColor"])
}

func TestSiteSettingsServiceCacheInvalidatedOnUpdate(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	svc := NewSiteSettingsService(memory.New().SiteSettings, rdb)

	_, err := svc.Initialize(ctx, defaultSettings())
	require.NoError(t, err)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Stream Hub", got.SiteTitle)
	assert.True(t, mr.Exists(cache.SiteSettingsKey))

	updated, err := svc.Update(ctx, models.SiteSettingsPatch{FooterText: strPtr("See you")})
	require.NoError(t, err)
	assert.Equal(t, "Stream Hub", updated.SiteTitle)
	assert.Equal(t, "See you", updated.FooterText)
	assert.False(t, mr.Exists(cache.SiteSettingsKey))

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "See you", got.FooterText)
	assert.Equal(t, "https://twitch.tv/streamer", got.SocialLinks.Data()["twitchMain"])
}

// pausingSettingsRepo holds the first armed Get after it has read the row,
// until release is closed.
type pausingSettingsRepo struct {
	repository.SiteSettingsRepository
	armed   atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func (r *pausingSettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := r.SiteSettingsRepository.Get(ctx)
	if r.armed.CompareAndSwap(true, false) {
		close(r.loaded)
		<-r.release
	}
	return settings, err
}

func TestSiteSettingsServiceSlowReadDoesNotHideUpdate(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	repo := &pausingSettingsRepo{
		SiteSettingsRepository: memory.New().SiteSettings,
		loaded:                 make(chan struct{}),
		release:                make(chan struct{}),
	}
	svc := NewSiteSettingsService(repo, rdb)

	_, err := svc.Initialize(ctx, defaultSettings())
	require.NoError(t, err)

	repo.armed.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx)
		done <- err
	}()

	<-repo.loaded
	_, err = svc.Update(ctx, models.SiteSettingsPatch{SiteTitle: strPtr("Renamed")})
	require.NoError(t, err)
	close(repo.release)
	require.NoError(t, <-done)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.SiteTitle)
}

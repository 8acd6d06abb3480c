package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"streamsite/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:           "test",
		DBDriver:      "sqlite",
		DBSQLitePath:  filepath.Join(t.TempDir(), "bootstrap.db"),
		RedisURL:      "127.0.0.1:1",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
}

func TestInitRuntime_SQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	rt, err := InitRuntime(ctx, cfg, Options{EnsureAdmin: true, SeedDefaults: true})
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	assert.Nil(t, rt.Redis)

	admin, err := rt.Repos.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NotEqual(t, "admin123", admin.Password)

	featured, err := rt.Repos.Streams.GetFeatured(ctx)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)

	settings, err := rt.Repos.SiteSettings.Get(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, settings.SiteTitle)
}

func TestInitRuntime_ReseedDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	rt, err := InitRuntime(ctx, cfg, Options{SeedDefaults: true})
	require.NoError(t, err)
	rt.Close()

	rt, err = InitRuntime(ctx, cfg, Options{SeedDefaults: true})
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	n, err := rt.Repos.Gallery.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
}

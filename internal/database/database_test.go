package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"streamsite/internal/config"
	"streamsite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: NewGormLogger()})
	require.NoError(t, err)
	require.NoError(t, configurePool(db, &config.Config{}))
	return db
}

func TestConnectWithRetry(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		got, err := connectWithRetry(ctx, 3, time.Millisecond, func() (*gorm.DB, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection refused")
			}
			return db, nil
		})
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after retries are exhausted", func(t *testing.T) {
		calls := 0
		_, err := connectWithRetry(ctx, 3, time.Millisecond, func() (*gorm.DB, error) {
			calls++
			return nil, errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 4 attempts")
		assert.Equal(t, 4, calls)
	})

	t.Run("zero retries means a single attempt", func(t *testing.T) {
		calls := 0
		_, err := connectWithRetry(ctx, 0, time.Hour, func() (*gorm.DB, error) {
			calls++
			return nil, errors.New("nope")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation stops the wait", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := connectWithRetry(cctx, 3, time.Hour, func() (*gorm.DB, error) {
			return nil, errors.New("nope")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "streamsite.db"),
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Stream{}, "idx_streams_single_featured"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestApplySchema_SingleFeaturedIndex(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, ApplySchema(context.Background(), db))
	// Idempotent.
	require.NoError(t, ApplySchema(context.Background(), db))

	require.NoError(t, db.Create(&models.Stream{Name: "a", URL: "https://twitch.tv/a", IsFeatured: true}).Error)
	require.NoError(t, db.Create(&models.Stream{Name: "b", URL: "https://twitch.tv/b"}).Error)
	require.NoError(t, db.Create(&models.Stream{Name: "c", URL: "https://twitch.tv/c"}).Error)

	err := db.Create(&models.Stream{Name: "d", URL: "https://twitch.tv/d", IsFeatured: true}).Error
	assert.Error(t, err, "a second featured stream must be rejected by the index")
}

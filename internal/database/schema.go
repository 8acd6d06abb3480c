package database

import (
	"context"
	"fmt"
	"log/slog"

	"streamsite/internal/middleware"

	"gorm.io/gorm"
)

// featuredIndexSQL backs the single-featured-stream rule at the storage level.
// Both PostgreSQL and SQLite support partial indexes.
const featuredIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_streams_single_featured ON streams (is_featured) WHERE is_featured`

// ApplySchema runs AutoMigrate for every persistent model and creates the
// indexes GORM tags cannot express.
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("dialect", db.Dialector.Name()))

	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := db.WithContext(ctx).Exec(featuredIndexSQL).Error; err != nil {
		return fmt.Errorf("create featured stream index: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}

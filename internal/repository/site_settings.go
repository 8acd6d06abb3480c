package repository

import (
	"context"
	"errors"

	"streamsite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettingsRepository stores the single site settings row.
type SiteSettingsRepository interface {
	// Get returns the row, or a not-found error before Initialize.
	Get(ctx context.Context) (*models.SiteSettings, error)
	// Initialize inserts defaults only if no row exists and returns the
	// stored row either way.
	Initialize(ctx context.Context, defaults *models.SiteSettings) (*models.SiteSettings, error)
	// Update merges patch onto the stored row. Fails with not-found when the
	// row does not exist yet.
	Update(ctx context.Context, patch models.SiteSettingsPatch) (*models.SiteSettings, error)
}

var errSiteSettingsMissing = models.NewMissingError("Site settings not found")

type siteSettingsRepository struct {
	db *gorm.DB
}

// NewSiteSettingsRepository returns a GORM SiteSettingsRepository.
func NewSiteSettingsRepository(db *gorm.DB) SiteSettingsRepository {
	return &siteSettingsRepository{db: db}
}

func (r *siteSettingsRepository) Get(ctx context.Context) (_ *models.SiteSettings, err error) {
	ctx, end := startOp(ctx, r.db, "site_settings", "get")
	defer func() { end(err) }()

	var s models.SiteSettings
	err = r.db.WithContext(ctx).First(&s, models.SiteSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errSiteSettingsMissing
	}
	if err != nil {
		return nil, mapError(err, "Site settings", models.SiteSettingsID)
	}
	return &s, nil
}

func (r *siteSettingsRepository) Initialize(ctx context.Context, defaults *models.SiteSettings) (_ *models.SiteSettings, err error) {
	ctx, end := startOp(ctx, r.db, "site_settings", "initialize")
	defer func() { end(err) }()

	row := defaults.Clone()
	row.ID = models.SiteSettingsID

	var stored models.SiteSettings
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent initializers race on the primary key; the loser's
		// insert becomes a no-op.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		return tx.First(&stored, models.SiteSettingsID).Error
	})
	if err != nil {
		return nil, mapError(err, "Site settings", models.SiteSettingsID)
	}
	return &stored, nil
}

func (r *siteSettingsRepository) Update(ctx context.Context, patch models.SiteSettingsPatch) (_ *models.SiteSettings, err error) {
	ctx, end := startOp(ctx, r.db, "site_settings", "update")
	defer func() { end(err) }()

	var s models.SiteSettings
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if isPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&s, models.SiteSettingsID).Error; err != nil {
			return err
		}
		patch.Apply(&s)
		return tx.Save(&s).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errSiteSettingsMissing
	}
	if err != nil {
		return nil, mapError(err, "Site settings", models.SiteSettingsID)
	}
	return &s, nil
}

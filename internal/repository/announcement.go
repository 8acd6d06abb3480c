package repository

import (
	"context"
	"time"

	"streamsite/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines persistence operations for announcements.
// List returns newest first; CreatedAt is never changed by Update.
type AnnouncementRepository interface {
	List(ctx context.Context) ([]models.Announcement, error)
	// Create assigns ID and stamps CreatedAt with the current time. Values
	// the caller put in either field are discarded.
	Create(ctx context.Context, a *models.Announcement) error
	// Import stores a with its own CreatedAt (now when zero). Seeding uses it
	// to backdate content; request paths go through Create.
	Import(ctx context.Context, a *models.Announcement) error
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository returns a GORM AnnouncementRepository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) List(ctx context.Context) (items []models.Announcement, err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "list")
	defer func() { end(err) }()

	items = []models.Announcement{}
	if err = r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, mapError(err, "Announcement", nil)
	}
	return items, nil
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) (err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "create")
	defer func() { end(err) }()

	a.CreatedAt = time.Now().UTC()
	return r.insert(ctx, a)
}

func (r *announcementRepository) Import(ctx context.Context, a *models.Announcement) (err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "import")
	defer func() { end(err) }()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.insert(ctx, a)
}

func (r *announcementRepository) insert(ctx context.Context, a *models.Announcement) error {
	a.ID = 0
	return mapError(r.db.WithContext(ctx).Create(a).Error, "Announcement", nil)
}

// Update overwrites title, content, type and imageUrl, then reloads a so the
// caller sees the stored createdAt.
func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) (err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "update")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Announcement{}).Where("id = ?", a.ID).Updates(map[string]any{
			"title":     a.Title,
			"content":   a.Content,
			"type":      a.Type,
			"image_url": a.ImageURL,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(a, a.ID).Error
	})
	return mapError(err, "Announcement", a.ID)
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "delete")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return mapError(res.Error, "Announcement", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	return nil
}

func (r *announcementRepository) Count(ctx context.Context) (n int64, err error) {
	ctx, end := startOp(ctx, r.db, "announcements", "count")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Model(&models.Announcement{}).Count(&n).Error
	return n, mapError(err, "Announcement", nil)
}

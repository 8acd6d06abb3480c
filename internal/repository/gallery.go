package repository

import (
	"context"

	"streamsite/internal/models"

	"gorm.io/gorm"
)

// GalleryRepository defines persistence operations for gallery images.
type GalleryRepository interface {
	List(ctx context.Context) ([]models.GalleryImage, error)
	Create(ctx context.Context, img *models.GalleryImage) error
	Update(ctx context.Context, img *models.GalleryImage) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository returns a GORM GalleryRepository.
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) List(ctx context.Context) (images []models.GalleryImage, err error) {
	ctx, end := startOp(ctx, r.db, "gallery_images", "list")
	defer func() { end(err) }()

	images = []models.GalleryImage{}
	if err = r.db.WithContext(ctx).Order("id ASC").Find(&images).Error; err != nil {
		return nil, mapError(err, "Gallery image", nil)
	}
	return images, nil
}

func (r *galleryRepository) Create(ctx context.Context, img *models.GalleryImage) (err error) {
	ctx, end := startOp(ctx, r.db, "gallery_images", "create")
	defer func() { end(err) }()

	img.ID = 0
	err = r.db.WithContext(ctx).Create(img).Error
	return mapError(err, "Gallery image", nil)
}

func (r *galleryRepository) Update(ctx context.Context, img *models.GalleryImage) (err error) {
	ctx, end := startOp(ctx, r.db, "gallery_images", "update")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.GalleryImage{}).Where("id = ?", img.ID).Updates(map[string]any{
		"title":       img.Title,
		"description": img.Description,
		"image_url":   img.ImageURL,
		"category":    img.Category,
	})
	if res.Error != nil {
		return mapError(res.Error, "Gallery image", img.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Gallery image", img.ID)
	}
	return nil
}

func (r *galleryRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := startOp(ctx, r.db, "gallery_images", "delete")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.GalleryImage{}, id)
	if res.Error != nil {
		return mapError(res.Error, "Gallery image", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Gallery image", id)
	}
	return nil
}

func (r *galleryRepository) Count(ctx context.Context) (n int64, err error) {
	ctx, end := startOp(ctx, r.db, "gallery_images", "count")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Model(&models.GalleryImage{}).Count(&n).Error
	return n, mapError(err, "Gallery image", nil)
}

package repository

import (
	"context"
	"errors"

	"streamsite/internal/models"
	"streamsite/internal/observability"

	"gorm.io/gorm"
)

// featuredLockKey is the pg_advisory_xact_lock key serializing writes that
// change which stream is featured.
const featuredLockKey int64 = 0x73747266 // "strf"

// StreamRepository defines the interface for stream data operations.
// Every write keeps at most one stream featured: a write that leaves a stream
// featured clears the flag on all others in the same transaction.
type StreamRepository interface {
	List(ctx context.Context) ([]models.Stream, error)
	GetByID(ctx context.Context, id uint) (*models.Stream, error)
	GetFeatured(ctx context.Context) (*models.Stream, error)
	Create(ctx context.Context, stream *models.Stream) error
	// Update replaces every mutable field of the stream with stream.ID.
	Update(ctx context.Context, stream *models.Stream) error
	SetFeatured(ctx context.Context, id uint) (*models.Stream, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type streamRepository struct {
	db *gorm.DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) List(ctx context.Context) (streams []models.Stream, err error) {
	ctx, end := startOp(ctx, r.db, "streams", "list")
	defer func() { end(err) }()

	streams = []models.Stream{}
	if err = r.db.WithContext(ctx).Order("id ASC").Find(&streams).Error; err != nil {
		return nil, mapError(err, "Stream", nil)
	}
	return streams, nil
}

func (r *streamRepository) GetByID(ctx context.Context, id uint) (_ *models.Stream, err error) {
	ctx, end := startOp(ctx, r.db, "streams", "get")
	defer func() { end(err) }()

	var stream models.Stream
	if err = r.db.WithContext(ctx).First(&stream, id).Error; err != nil {
		return nil, mapError(err, "Stream", id)
	}
	return &stream, nil
}

func (r *streamRepository) GetFeatured(ctx context.Context) (_ *models.Stream, err error) {
	ctx, end := startOp(ctx, r.db, "streams", "get_featured")
	defer func() { end(err) }()

	var stream models.Stream
	err = r.db.WithContext(ctx).Where("is_featured = ?", true).Order("id ASC").First(&stream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewMissingError("No featured stream")
	}
	if err != nil {
		return nil, mapError(err, "Stream", nil)
	}
	return &stream, nil
}

func (r *streamRepository) Create(ctx context.Context, stream *models.Stream) (err error) {
	ctx, end := startOp(ctx, r.db, "streams", "create")
	defer func() { end(err) }()

	stream.ID = 0
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if stream.IsFeatured {
			if err := clearFeatured(tx, 0); err != nil {
				return err
			}
		}
		return tx.Create(stream).Error
	})
	if err != nil {
		return mapError(err, "Stream", nil)
	}
	if stream.IsFeatured {
		observability.FeaturedStreamChanges.Inc()
	}
	return nil
}

func (r *streamRepository) Update(ctx context.Context, stream *models.Stream) (err error) {
	ctx, end := startOp(ctx, r.db, "streams", "update")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Stream
		if err := tx.Select("id").First(&existing, stream.ID).Error; err != nil {
			return err
		}
		if stream.IsFeatured {
			if err := clearFeatured(tx, stream.ID); err != nil {
				return err
			}
		}
		return tx.Model(&models.Stream{}).Where("id = ?", stream.ID).Updates(map[string]any{
			"name":        stream.Name,
			"url":         stream.URL,
			"description": stream.Description,
			"type":        stream.Type,
			"is_featured": stream.IsFeatured,
		}).Error
	})
	if err != nil {
		return mapError(err, "Stream", stream.ID)
	}
	if stream.IsFeatured {
		observability.FeaturedStreamChanges.Inc()
	}
	return nil
}

func (r *streamRepository) SetFeatured(ctx context.Context, id uint) (_ *models.Stream, err error) {
	ctx, end := startOp(ctx, r.db, "streams", "set_featured")
	defer func() { end(err) }()

	var stream models.Stream
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stream, id).Error; err != nil {
			return err
		}
		if err := clearFeatured(tx, id); err != nil {
			return err
		}
		stream.IsFeatured = true
		return tx.Model(&models.Stream{}).Where("id = ?", id).Update("is_featured", true).Error
	})
	if err != nil {
		return nil, mapError(err, "Stream", id)
	}
	observability.FeaturedStreamChanges.Inc()
	return &stream, nil
}

func (r *streamRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := startOp(ctx, r.db, "streams", "delete")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Stream{}, id)
	if res.Error != nil {
		return mapError(res.Error, "Stream", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Stream", id)
	}
	return nil
}

func (r *streamRepository) Count(ctx context.Context) (n int64, err error) {
	ctx, end := startOp(ctx, r.db, "streams", "count")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Model(&models.Stream{}).Count(&n).Error
	return n, mapError(err, "Stream", nil)
}

// clearFeatured unsets is_featured on every stream except keepID. On
// PostgreSQL it first takes a transaction-scoped advisory lock so concurrent
// featured writes apply one after another.
func clearFeatured(tx *gorm.DB, keepID uint) error {
	if isPostgres(tx) {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", featuredLockKey).Error; err != nil {
			return err
		}
	}
	q := tx.Model(&models.Stream{}).Where("is_featured = ?", true)
	if keepID != 0 {
		q = q.Where("id <> ?", keepID)
	}
	return q.Update("is_featured", false).Error
}

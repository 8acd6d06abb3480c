// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"

	"streamsite/internal/cache"
	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/validation"

	"github.com/redis/go-redis/v9"
)

// StreamInput is the writable part of a stream. Update treats it as a full
// replacement, so an omitted isFeatured means "not featured".
type StreamInput struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Type        string `json:"type"`
	IsFeatured  bool   `json:"isFeatured"`
}

func (in StreamInput) validate() error {
	v := validation.New()
	v.Required("name", in.Name).MaxLen("name", in.Name, 255)
	v.Required("url", in.URL).MaxLen("url", in.URL, 500).URL("url", in.URL)
	v.Required("type", in.Type).MaxLen("type", in.Type, 100)
	v.MaxLen("description", in.Description, 5000)
	return v.Err()
}

type StreamService struct {
	repo  repository.StreamRepository
	redis *redis.Client
}

// NewStreamService returns a StreamService. rdb may be nil.
func NewStreamService(repo repository.StreamRepository, rdb *redis.Client) *StreamService {
	return &StreamService{repo: repo, redis: rdb}
}

func (s *StreamService) List(ctx context.Context) ([]models.Stream, error) {
	return s.repo.List(ctx)
}

// GetFeatured returns the featured stream, served from Redis when cached.
func (s *StreamService) GetFeatured(ctx context.Context) (*models.Stream, error) {
	var stream models.Stream
	err := cache.CacheAside(ctx, s.redis, cache.FeaturedStreamKey, &stream, cache.FeaturedStreamTTL, func() error {
		featured, err := s.repo.GetFeatured(ctx)
		if err != nil {
			return err
		}
		stream = *featured
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *StreamService) Create(ctx context.Context, in StreamInput) (*models.Stream, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	stream := in.toModel(0)
	if err := s.repo.Create(ctx, stream); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return stream, nil
}

func (s *StreamService) Update(ctx context.Context, id uint, in StreamInput) (*models.Stream, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	stream := in.toModel(id)
	if err := s.repo.Update(ctx, stream); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return stream, nil
}

// SetFeatured makes id the only featured stream.
func (s *StreamService) SetFeatured(ctx context.Context, id uint) (*models.Stream, error) {
	stream, err := s.repo.SetFeatured(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return stream, nil
}

func (s *StreamService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *StreamService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.redis, cache.FeaturedStreamKey)
}

func (in StreamInput) toModel(id uint) *models.Stream {
	return &models.Stream{
		ID:          id,
		Name:        in.Name,
		URL:         in.URL,
		Description: in.Description,
		Type:        in.Type,
		IsFeatured:  in.IsFeatured,
	}
}

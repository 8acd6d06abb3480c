package service

import (
	"context"

	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/validation"
)

// GalleryImageInput is the writable part of a gallery image.
type GalleryImageInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

func (in GalleryImageInput) validate() error {
	v := validation.New()
	v.Required("title", in.Title).MaxLen("title", in.Title, 255)
	v.MaxLen("description", in.Description, 5000)
	v.Required("imageUrl", in.ImageURL).MaxLen("imageUrl", in.ImageURL, 500).URL("imageUrl", in.ImageURL)
	v.Required("category", in.Category).MaxLen("category", in.Category, 100)
	return v.Err()
}

func (in GalleryImageInput) toModel(id uint) *models.GalleryImage {
	return &models.GalleryImage{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	}
}

type GalleryService struct {
	repo repository.GalleryRepository
}

func NewGalleryService(repo repository.GalleryRepository) *GalleryService {
	return &GalleryService{repo: repo}
}

func (s *GalleryService) List(ctx context.Context) ([]models.GalleryImage, error) {
	return s.repo.List(ctx)
}

func (s *GalleryService) Create(ctx context.Context, in GalleryImageInput) (*models.GalleryImage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	img := in.toModel(0)
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *GalleryService) Update(ctx context.Context, id uint, in GalleryImageInput) (*models.GalleryImage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	img := in.toModel(id)
	if err := s.repo.Update(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

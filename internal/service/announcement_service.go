package service

import (
	"context"

	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/validation"
)

// AnnouncementInput is the writable part of an announcement. Any id or
// createdAt sent by a client is ignored.
type AnnouncementInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	ImageURL string `json:"imageUrl"`
}

func (in AnnouncementInput) validate() error {
	v := validation.New()
	v.Required("title", in.Title).MaxLen("title", in.Title, 255)
	v.Required("content", in.Content).MaxLen("content", in.Content, 20000)
	v.Required("type", in.Type).MaxLen("type", in.Type, 100)
	v.MaxLen("imageUrl", in.ImageURL, 500).URL("imageUrl", in.ImageURL)
	return v.Err()
}

type AnnouncementService struct {
	repo repository.AnnouncementRepository
}

func NewAnnouncementService(repo repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{repo: repo}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return s.repo.List(ctx)
}

func (s *AnnouncementService) Create(ctx context.Context, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &models.Announcement{
		Title:    in.Title,
		Content:  in.Content,
		Type:     in.Type,
		ImageURL: in.ImageURL,
	}
	// The repository stamps createdAt.
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the mutable fields; id and createdAt are preserved.
func (s *AnnouncementService) Update(ctx context.Context, id uint, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &models.Announcement{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Type:     in.Type,
		ImageURL: in.ImageURL,
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

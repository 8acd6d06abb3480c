package seed

import (
	"context"
	"fmt"
	"time"

	"streamsite/internal/models"
	"streamsite/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	announcementTypes = []string{"Travel Update", "Partnership", "Giveaway", "Schedule", "Community"}
	galleryCategories = []string{"Travel Destinations", "Luxury Accommodations", "Streaming Equipment", "Behind the Scenes"}
	streamTypes       = []string{"IRL", "Gaming", "Just Chatting", "Music"}
)

// Factory generates fake content for demos and local development.
type Factory struct {
	repos *repository.Repositories
	faker *gofakeit.Faker
	// MaxDays bounds how far back generated announcements are dated.
	MaxDays int
}

// NewFactory returns a Factory writing through repos. A zero seed picks a
// random one.
func NewFactory(repos *repository.Repositories, seed int64) *Factory {
	return &Factory{repos: repos, faker: gofakeit.New(seed), MaxDays: 90}
}

// BuildAnnouncement returns an unsaved announcement.
func (f *Factory) BuildAnnouncement() *models.Announcement {
	now := time.Now().UTC()
	maxDays := f.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	a := &models.Announcement{
		Title:     f.faker.Sentence(5),
		Content:   f.faker.Paragraph(1, 3, 12, " "),
		Type:      f.faker.RandomString(announcementTypes),
		CreatedAt: f.faker.DateRange(now.AddDate(0, 0, -maxDays), now).UTC(),
	}
	// roughly half carry an image
	if f.faker.Bool() {
		a.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", f.faker.UUID())
	}
	return a
}

// BuildGalleryImage returns an unsaved gallery image.
func (f *Factory) BuildGalleryImage() *models.GalleryImage {
	return &models.GalleryImage{
		Title:       f.faker.Sentence(3),
		Description: f.faker.Sentence(8),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID()),
		Category:    f.faker.RandomString(galleryCategories),
	}
}

// BuildStream returns an unsaved, unfeatured stream.
func (f *Factory) BuildStream() *models.Stream {
	login := f.faker.Username()
	return &models.Stream{
		Name:        login,
		URL:         "https://www.twitch.tv/" + login,
		Description: f.faker.Sentence(10),
		Type:        f.faker.RandomString(streamTypes),
	}
}

// Announcements creates n fake announcements.
func (f *Factory) Announcements(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := f.repos.Announcements.Import(ctx, f.BuildAnnouncement()); err != nil {
			return fmt.Errorf("create announcement %d: %w", i, err)
		}
	}
	return nil
}

// GalleryImages creates n fake gallery images.
func (f *Factory) GalleryImages(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := f.repos.Gallery.Create(ctx, f.BuildGalleryImage()); err != nil {
			return fmt.Errorf("create gallery image %d: %w", i, err)
		}
	}
	return nil
}

// Streams creates n fake streams. None of them is featured.
func (f *Factory) Streams(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := f.repos.Streams.Create(ctx, f.BuildStream()); err != nil {
			return fmt.Errorf("create stream %d: %w", i, err)
		}
	}
	return nil
}

package seed

import (
	"context"
	"fmt"
	"time"

	"streamsite/internal/middleware"
	"streamsite/internal/models"
	"streamsite/internal/repository"
)

// Defaults initializes site settings and fills each empty content table from
// c. Tables that already hold rows are left alone, so it is safe to run on
// every start.
func Defaults(ctx context.Context, repos *repository.Repositories, c *Content) error {
	if _, err := repos.SiteSettings.Initialize(ctx, c.Settings()); err != nil {
		return fmt.Errorf("initialize site settings: %w", err)
	}

	n, err := repos.Streams.Count(ctx)
	if err != nil {
		return fmt.Errorf("count streams: %w", err)
	}
	if n == 0 {
		for _, s := range c.Streams {
			stream := &models.Stream{
				Name:        s.Name,
				URL:         s.URL,
				Description: s.Description,
				Type:        s.Type,
				IsFeatured:  s.IsFeatured,
			}
			if err := repos.Streams.Create(ctx, stream); err != nil {
				return fmt.Errorf("seed stream %q: %w", s.Name, err)
			}
		}
		middleware.Logger.InfoContext(ctx, "seeded default streams", "count", len(c.Streams))
	}

	n, err = repos.Announcements.Count(ctx)
	if err != nil {
		return fmt.Errorf("count announcements: %w", err)
	}
	if n == 0 {
		// Keep the document order when listed newest first.
		now := time.Now().UTC()
		for i, a := range c.Announcements {
			item := &models.Announcement{
				Title:     a.Title,
				Content:   a.Content,
				Type:      a.Type,
				ImageURL:  a.ImageURL,
				CreatedAt: now.Add(-time.Duration(i) * time.Minute),
			}
			if err := repos.Announcements.Import(ctx, item); err != nil {
				return fmt.Errorf("seed announcement %q: %w", a.Title, err)
			}
		}
		middleware.Logger.InfoContext(ctx, "seeded default announcements", "count", len(c.Announcements))
	}

	n, err = repos.Gallery.Count(ctx)
	if err != nil {
		return fmt.Errorf("count gallery images: %w", err)
	}
	if n == 0 {
		for _, g := range c.Gallery {
			img := &models.GalleryImage{
				Title:       g.Title,
				Description: g.Description,
				ImageURL:    g.ImageURL,
				Category:    g.Category,
			}
			if err := repos.Gallery.Create(ctx, img); err != nil {
				return fmt.Errorf("seed gallery image %q: %w", g.Title, err)
			}
		}
		middleware.Logger.InfoContext(ctx, "seeded default gallery", "count", len(c.Gallery))
	}

	return nil
}

package service

import (
	"context"
	"sort"

	"streamsite/internal/cache"
	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/validation"

	"github.com/redis/go-redis/v9"
)

type SiteSettingsService struct {
	repo  repository.SiteSettingsRepository
	redis *redis.Client
}

// NewSiteSettingsService returns a SiteSettingsService. rdb may be nil.
func NewSiteSettingsService(repo repository.SiteSettingsRepository, rdb *redis.Client) *SiteSettingsService {
	return &SiteSettingsService{repo: repo, redis: rdb}
}

// Get returns the settings row, or a not-found error before initialization.
func (s *SiteSettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := cache.CacheAside(ctx, s.redis, cache.SiteSettingsKey, &settings, cache.SiteSettingsTTL, func() error {
		row, err := s.repo.Get(ctx)
		if err != nil {
			return err
		}
		settings = *row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Initialize creates the row from defaults if none exists. Calling it again
// returns the stored row unchanged.
func (s *SiteSettingsService) Initialize(ctx context.Context, defaults *models.SiteSettings) (*models.SiteSettings, error) {
	settings, err := s.repo.Initialize(ctx, defaults)
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, s.redis, cache.SiteSettingsKey)
	return settings, nil
}

// Update merges patch onto the stored row.
func (s *SiteSettingsService) Update(ctx context.Context, patch models.SiteSettingsPatch) (*models.SiteSettings, error) {
	if err := validateSettingsPatch(patch); err != nil {
		return nil, err
	}
	settings, err := s.repo.Update(ctx, patch)
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, s.redis, cache.SiteSettingsKey)
	return settings, nil
}

func validateSettingsPatch(p models.SiteSettingsPatch) error {
	if p.Empty() {
		return models.NewValidationError("No settings to update")
	}

	v := validation.New()
	if p.SiteTitle != nil {
		v.Required("siteTitle", *p.SiteTitle).MaxLen("siteTitle", *p.SiteTitle, 255)
	}
	if p.MetaDescription != nil {
		v.MaxLen("metaDescription", *p.MetaDescription, 1000)
	}
	if p.FooterText != nil {
		v.MaxLen("footerText", *p.FooterText, 500)
	}
	if p.SocialLinks != nil {
		names := make([]string, 0, len(*p.SocialLinks))
		for name := range *p.SocialLinks {
			names = append(names, name)
		}
		// stable field order in the error body
		sort.Strings(names)
		for _, name := range names {
			field := "socialLinks." + name
			link := (*p.SocialLinks)[name]
			v.MaxLen(field, link, 500).URL(field, link)
		}
	}
	if t := p.ThemeSettings; t != nil {
		v.MaxLen("themeSettings.currentTheme", t.CurrentTheme, 50)
		v.HexColor("themeSettings.primaryColor", t.PrimaryColor)
		v.HexColor("themeSettings.secondaryColor", t.SecondaryColor)
		v.HexColor("themeSettings.accentTeal", t.AccentTeal)
		v.HexColor("themeSettings.accentPurple", t.AccentPurple)
	}
	return v.Err()
}

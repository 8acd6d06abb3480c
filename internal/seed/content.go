// Package seed loads the default site content and generates demo data.
package seed

import (
	_ "embed"
	"fmt"

	"streamsite/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Content is the default site content shipped with the binary.
type Content struct {
	SiteSettings  settingsDoc       `yaml:"siteSettings"`
	Streams       []streamDoc       `yaml:"streams"`
	Announcements []announcementDoc `yaml:"announcements"`
	Gallery       []galleryDoc      `yaml:"gallery"`
}

type settingsDoc struct {
	SiteTitle       string               `yaml:"siteTitle"`
	MetaDescription string               `yaml:"metaDescription"`
	FooterText      string               `yaml:"footerText"`
	SocialLinks     models.SocialLinks   `yaml:"socialLinks"`
	ThemeSettings   models.ThemeSettings `yaml:"themeSettings"`
}

type streamDoc struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	IsFeatured  bool   `yaml:"isFeatured"`
}

type announcementDoc struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Type     string `yaml:"type"`
	ImageURL string `yaml:"imageUrl"`
}

type galleryDoc struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
	Category    string `yaml:"category"`
}

// LoadDefaults parses the embedded defaults document.
func LoadDefaults() (*Content, error) {
	return ParseContent(defaultsYAML)
}

// ParseContent parses a content document in the defaults.yaml format.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed content: %w", err)
	}
	return &c, nil
}

// Settings returns the default site settings row.
func (c *Content) Settings() *models.SiteSettings {
	return &models.SiteSettings{
		ID:              models.SiteSettingsID,
		SiteTitle:       c.SiteSettings.SiteTitle,
		MetaDescription: c.SiteSettings.MetaDescription,
		FooterText:      c.SiteSettings.FooterText,
		SocialLinks:     datatypes.NewJSONType(c.SiteSettings.SocialLinks),
		ThemeSettings:   datatypes.NewJSONType(c.SiteSettings.ThemeSettings),
	}
}

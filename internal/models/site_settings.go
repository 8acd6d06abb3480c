package models

import (
	"maps"

	"gorm.io/datatypes"
)

// SiteSettingsID is the primary key of the only site settings row.
const SiteSettingsID uint = 1

// SocialLinks maps a link name (e.g. "twitchMain", "discord") to its URL.
type SocialLinks map[string]string

// ThemeSettings holds the active theme and its color palette.
type ThemeSettings struct {
	CurrentTheme   string `json:"currentTheme" yaml:"currentTheme"`
	PrimaryColor   string `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor string `json:"secondaryColor" yaml:"secondaryColor"`
	AccentTeal     string `json:"accentTeal" yaml:"accentTeal"`
	AccentPurple   string `json:"accentPurple" yaml:"accentPurple"`
}

// SiteSettings is the singleton row of site-wide text, links and theme.
type SiteSettings struct {
	ID              uint                              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SiteTitle       string                            `gorm:"size:255" json:"siteTitle"`
	MetaDescription string                            `gorm:"type:text" json:"metaDescription"`
	FooterText      string                            `gorm:"size:500" json:"footerText"`
	SocialLinks     datatypes.JSONType[SocialLinks]   `json:"socialLinks"`
	ThemeSettings   datatypes.JSONType[ThemeSettings] `json:"themeSettings"`
}

// Clone returns a deep copy, so callers can mutate the result freely.
func (s *SiteSettings) Clone() *SiteSettings {
	out := *s
	out.SocialLinks = datatypes.NewJSONType(maps.Clone(s.SocialLinks.Data()))
	return &out
}

// SiteSettingsPatch is a partial update. Nil fields are left untouched;
// non-nil fields replace the stored value wholesale.
type SiteSettingsPatch struct {
	SiteTitle       *string        `json:"siteTitle"`
	MetaDescription *string        `json:"metaDescription"`
	FooterText      *string        `json:"footerText"`
	SocialLinks     *SocialLinks   `json:"socialLinks"`
	ThemeSettings   *ThemeSettings `json:"themeSettings"`
}

// Empty reports whether the patch changes nothing.
func (p SiteSettingsPatch) Empty() bool {
	return p.SiteTitle == nil && p.MetaDescription == nil && p.FooterText == nil &&
		p.SocialLinks == nil && p.ThemeSettings == nil
}

// Apply merges the patch onto s.
func (p SiteSettingsPatch) Apply(s *SiteSettings) {
	if p.SiteTitle != nil {
		s.SiteTitle = *p.SiteTitle
	}
	if p.MetaDescription != nil {
		s.MetaDescription = *p.MetaDescription
	}
	if p.FooterText != nil {
		s.FooterText = *p.FooterText
	}
	if p.SocialLinks != nil {
		s.SocialLinks = datatypes.NewJSONType(maps.Clone(*p.SocialLinks))
	}
	if p.ThemeSettings != nil {
		s.ThemeSettings = datatypes.NewJSONType(*p.ThemeSettings)
	}
}

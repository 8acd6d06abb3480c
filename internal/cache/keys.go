package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	SiteSettingsKey   = "site_settings"
	FeaturedStreamKey = "streams:featured"
	TwitchStatsPrefix = "twitch:stats:%s"
	SessionKeyPrefix  = "session:"
)

const (
	SiteSettingsTTL   = 10 * time.Minute
	FeaturedStreamTTL = 5 * time.Minute
	TwitchStatsTTL    = 60 * time.Second
)

// TwitchStatsKey is case-insensitive because Twitch logins are.
func TwitchStatsKey(channel string) string {
	return fmt.Sprintf(TwitchStatsPrefix, strings.ToLower(channel))
}

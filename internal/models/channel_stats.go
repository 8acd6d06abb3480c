package models

// ChannelStats is the live snapshot of a Twitch channel shown on the homepage.
// Subscriber counts need the broadcaster's own token, so Subscribers is always 0.
type ChannelStats struct {
	IsLive      bool `json:"isLive"`
	Viewers     int  `json:"viewers"`
	Followers   int  `json:"followers"`
	Subscribers int  `json:"subscribers"`
}

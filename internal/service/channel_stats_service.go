package service

import (
	"context"
	"strings"

	"streamsite/internal/cache"
	"streamsite/internal/models"
	"streamsite/internal/validation"

	"github.com/redis/go-redis/v9"
)

// StatsProvider fetches live channel numbers from the streaming platform.
type StatsProvider interface {
	ChannelStats(ctx context.Context, login string) (*models.ChannelStats, error)
}

type ChannelStatsService struct {
	provider StatsProvider
	redis    *redis.Client
}

// NewChannelStatsService returns a ChannelStatsService. A nil provider makes
// every lookup report the feature as unavailable.
func NewChannelStatsService(provider StatsProvider, rdb *redis.Client) *ChannelStatsService {
	return &ChannelStatsService{provider: provider, redis: rdb}
}

func (s *ChannelStatsService) Get(ctx context.Context, channel string) (*models.ChannelStats, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if err := validation.ValidateChannelName(channel); err != nil {
		return nil, models.NewValidationError("Validation failed",
			models.FieldError{Field: "channel", Message: err.Error()})
	}
	if s.provider == nil {
		return nil, models.NewUnavailableError("Twitch integration is not configured", nil)
	}

	var stats models.ChannelStats
	err := cache.CacheAside(ctx, s.redis, cache.TwitchStatsKey(channel), &stats, cache.TwitchStatsTTL, func() error {
		fetched, err := s.provider.ChannelStats(ctx, channel)
		if err != nil {
			return err
		}
		stats = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

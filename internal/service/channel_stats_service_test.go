package service

import (
	"context"
	"errors"
	"testing"

	"streamsite/internal/cache"
	"streamsite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsProviderStub struct {
	calls int
	fn    func(context.Context, string) (*models.ChannelStats, error)
}

func (s *statsProviderStub) ChannelStats(ctx context.Context, login string) (*models.ChannelStats, error) {
	s.calls++
	return s.fn(ctx, login)
}

func TestChannelStatsServiceUnavailableWithoutProvider(t *testing.T) {
	svc := NewChannelStatsService(nil, nil)
	_, err := svc.Get(context.Background(), "streamer")

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeUnavailable, appErr.Code)
}

func TestChannelStatsServiceValidatesChannel(t *testing.T) {
	svc := NewChannelStatsService(&statsProviderStub{}, nil)
	_, err := svc.Get(context.Background(), "no")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestChannelStatsServiceCaches(t *testing.T) {
	mr, rdb := newTestRedis(t)
	provider := &statsProviderStub{
		fn: func(_ context.Context, login string) (*models.ChannelStats, error) {
			assert.Equal(t, "streamer", login)
			return &models.ChannelStats{IsLive: true, Viewers: 120, Followers: 5000}, nil
		},
	}
	svc := NewChannelStatsService(provider, rdb)
	ctx := context.Background()

	first, err := svc.Get(ctx, "Streamer")
	require.NoError(t, err)
	second, err := svc.Get(ctx, "streamer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
	assert.True(t, mr.Exists(cache.TwitchStatsKey("streamer")))
}

func TestChannelStatsServicePropagatesProviderError(t *testing.T) {
	svc := NewChannelStatsService(&statsProviderStub{
		fn: func(context.Context, string) (*models.ChannelStats, error) {
			return nil, models.NewMissingError("Channel streamer not found")
		},
	}, nil)
	_, err := svc.Get(context.Background(), "streamer")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

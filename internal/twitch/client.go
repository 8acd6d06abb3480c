// Package twitch wraps the Twitch Helix API for public channel stats.
package twitch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"streamsite/internal/middleware"
	"streamsite/internal/models"
	"streamsite/internal/observability"

	"github.com/nicklaw5/helix/v2"
)

// Client fetches channel stats with an app access token, requested lazily
// and refreshed once when Helix answers 401.
type Client struct {
	helix *helix.Client

	mu       sync.Mutex
	hasToken bool
}

// NewClient returns a Helix client for the given application credentials.
func NewClient(clientID, clientSecret string) (*Client, error) {
	return newClient(&helix.Options{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	})
}

func newClient(opts *helix.Options) (*Client, error) {
	hc, err := helix.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create helix client: %w", err)
	}
	return &Client{helix: hc, hasToken: opts.AppAccessToken != ""}, nil
}

func (c *Client) ensureToken(force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasToken && !force {
		return nil
	}
	resp, err := c.helix.RequestAppAccessToken([]string{})
	observability.TwitchRequests.WithLabelValues("token", observability.Outcome(err)).Inc()
	if err != nil {
		return fmt.Errorf("request app access token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request app access token: %d %s", resp.StatusCode, resp.ErrorMessage)
	}
	c.helix.SetAppAccessToken(resp.Data.AccessToken)
	c.hasToken = true
	return nil
}

// call runs fn, refreshing the app token and retrying once on 401.
func (c *Client) call(endpoint string, fn func() (int, string, error)) error {
	if err := c.ensureToken(false); err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		status, msg, err := fn()
		if err == nil && status == http.StatusUnauthorized && attempt == 0 {
			if err := c.ensureToken(true); err != nil {
				return err
			}
			continue
		}
		if err == nil && status >= http.StatusBadRequest {
			err = fmt.Errorf("helix %s: %d %s", endpoint, status, msg)
		}
		observability.TwitchRequests.WithLabelValues(endpoint, observability.Outcome(err)).Inc()
		return err
	}
}

// ChannelStats returns live status, viewer count and follower total for
// login. Unknown channels yield a not-found AppError.
func (c *Client) ChannelStats(ctx context.Context, login string) (stats *models.ChannelStats, err error) {
	ctx, span := observability.StartClientSpan(ctx, "twitch", "ChannelStats")
	defer func() { observability.EndSpan(span, err) }()

	login = strings.ToLower(login)

	var user helix.User
	err = c.call("users", func() (int, string, error) {
		resp, err := c.helix.GetUsers(&helix.UsersParams{Logins: []string{login}})
		if err != nil {
			return 0, "", err
		}
		if len(resp.Data.Users) > 0 {
			user = resp.Data.Users[0]
		}
		return resp.StatusCode, resp.ErrorMessage, nil
	})
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, models.NewMissingError("Twitch channel " + login + " not found")
	}

	stats = &models.ChannelStats{}
	err = c.call("streams", func() (int, string, error) {
		resp, err := c.helix.GetStreams(&helix.StreamsParams{UserIDs: []string{user.ID}})
		if err != nil {
			return 0, "", err
		}
		if len(resp.Data.Streams) > 0 {
			stats.IsLive = true
			stats.Viewers = resp.Data.Streams[0].ViewerCount
		}
		return resp.StatusCode, resp.ErrorMessage, nil
	})
	if err != nil {
		return nil, err
	}

	err = c.call("followers", func() (int, string, error) {
		resp, err := c.helix.GetChannelFollows(&helix.GetChannelFollowsParams{BroadcasterID: user.ID, First: 1})
		if err != nil {
			return 0, "", err
		}
		stats.Followers = resp.Data.Total
		return resp.StatusCode, resp.ErrorMessage, nil
	})
	if err != nil {
		// Live status is still useful without the follower total.
		middleware.Logger.WarnContext(ctx, "twitch follower lookup failed",
			slog.String("channel", login), slog.String("error", err.Error()))
		err = nil
	}

	return stats, nil
}

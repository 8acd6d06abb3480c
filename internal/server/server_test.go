package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"streamsite/internal/config"
	"streamsite/internal/models"
	"streamsite/internal/repository"
	"streamsite/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "admin123"

type testEnv struct {
	app   *fiber.App
	repos *repository.Repositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.New()
	cfg := &config.Config{
		Env:             "test",
		Port:            "0",
		AdminUsername:   "admin",
		AdminPassword:   testAdminPassword,
		SessionTTLHours: 24,
	}
	s, err := NewServer(cfg, Deps{Repos: repos, DisableMetrics: true})
	require.NoError(t, err)
	_, err = s.authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
	require.NoError(t, err)
	return &testEnv{app: s.NewApp(), repos: repos}
}

// do sends a JSON request, optionally with a session cookie, and returns the
// response and its body.
func (e *testEnv) do(t *testing.T, method, path string, body any, sid string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) login(t *testing.T, password string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/login", fiber.Map{"password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()
	var out models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "memory", ready.Checks["database"])
	assert.Equal(t, "disabled", ready.Checks["redis"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, body).Error)
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	stream := fiber.Map{"name": "Main", "url": "https://twitch.tv/main", "type": "IRL"}

	resp, body := env.do(t, http.MethodPost, "/api/admin/streams", stream, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeUnauthorized, decodeError(t, body).Code)

	resp, _ = env.do(t, http.MethodGet, "/api/user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/login", fiber.Map{"password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	sid := env.login(t, testAdminPassword)

	resp, body = env.do(t, http.MethodGet, "/api/user", nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "admin", me["username"])
	assert.Equal(t, true, me["isAdmin"])
	assert.NotContains(t, me, "password")

	resp, _ = env.do(t, http.MethodPost, "/api/admin/streams", stream, sid)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/logout", nil, sid)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/streams", stream, sid)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginWithExplicitUsername(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/login",
		fiber.Map{"username": "admin", "password": testAdminPassword}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/login",
		fiber.Map{"username": "someone", "password": testAdminPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/login", fiber.Map{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, decodeError(t, body).Code)
}

func TestFeaturedStreamReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	sid := env.login(t, testAdminPassword)

	resp, _ := env.do(t, http.MethodPost, "/api/admin/streams", fiber.Map{
		"name": "Travel", "url": "https://twitch.tv/travel", "type": "IRL", "isFeatured": true,
	}, sid)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/admin/streams", fiber.Map{
		"name": "Gaming", "url": "https://twitch.tv/gaming", "type": "Gaming", "isFeatured": true,
	}, sid)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Stream
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = env.do(t, http.MethodGet, "/api/streams/featured", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var featured models.Stream
	require.NoError(t, json.Unmarshal(body, &featured))
	assert.Equal(t, created.ID, featured.ID)
	assert.Equal(t, "Gaming", featured.Name)

	_, body = env.do(t, http.MethodGet, "/api/streams", nil, "")
	var streams []models.Stream
	require.NoError(t, json.Unmarshal(body, &streams))
	require.Len(t, streams, 2)
	assert.False(t, streams[0].IsFeatured)
	assert.True(t, streams[1].IsFeatured)

	resp, _ = env.do(t, http.MethodPut, "/api/admin/streams/1/featured", nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = env.do(t, http.MethodGet, "/api/streams/featured", nil, "")
	require.NoError(t, json.Unmarshal(body, &featured))
	assert.Equal(t, uint(1), featured.ID)
}

func TestFeaturedStreamMissing(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/streams/featured", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, decodeError(t, body).Code)
}

func TestDeleteUnknownIDsReturnNotFound(t *testing.T) {
	env := newTestEnv(t)
	sid := env.login(t, testAdminPassword)

	for _, path := range []string{
		"/api/admin/streams/999",
		"/api/admin/announcements/999",
		"/api/admin/gallery/999",
	} {
		resp, body := env.do(t, http.MethodDelete, path, nil, sid)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, models.CodeNotFound, decodeError(t, body).Code, path)
	}

	resp, _ := env.do(t, http.MethodDelete, "/api/admin/streams/abc", nil, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationListsFields(t *testing.T) {
	env := newTestEnv(t)
	sid := env.login(t, testAdminPassword)

	resp, body := env.do(t, http.MethodPost, "/api/admin/gallery", fiber.Map{"imageUrl": "nope"}, sid)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, body)
	assert.Equal(t, models.CodeValidation, errResp.Code)
	fields := map[string]bool{}
	for _, f := range errResp.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["imageUrl"])
	assert.True(t, fields["category"])

	resp, _ = env.do(t, http.MethodPost, "/api/admin/announcements", nil, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnnouncementLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sid := env.login(t, testAdminPassword)

	resp, body := env.do(t, http.MethodPost, "/api/admin/announcements", fiber.Map{
		"id":        77,
		"title":     "Schedule",
		"content":   "Live tonight",
		"type":      "News",
		"createdAt": "2001-01-01T00:00:00Z",
	}, sid)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Announcement
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEqual(t, uint(77), created.ID)
	assert.NotEqual(t, 2001, created.CreatedAt.Year())

	resp, body = env.do(t, http.MethodPut, "/api/admin/announcements/1", fiber.Map{
		"title": "Schedule v2", "content": "Live tomorrow", "type": "News",
	}, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Announcement
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Schedule v2", updated.Title)

	_, body = env.do(t, http.MethodGet, "/api/announcements", nil, "")
	var list []models.Announcement
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	resp, _ = env.do(t, http.MethodDelete, "/api/admin/announcements/1", nil, sid)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/admin/announcements/1", fiber.Map{
		"title": "x", "content": "y", "type": "z",
	}, sid)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSiteSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	sid := env.login(t, testAdminPassword)

	resp, _ := env.do(t, http.MethodGet, "/api/site-settings", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/admin/site-settings", fiber.Map{"siteTitle": "x"}, sid)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err := env.repos.SiteSettings.Initialize(context.Background(), &models.SiteSettings{
		SiteTitle:  "Hub",
		FooterText: "bye",
	})
	require.NoError(t, err)

	resp, body := env.do(t, http.MethodPut, "/api/admin/site-settings", fiber.Map{
		"siteTitle":     "New Hub",
		"socialLinks":   fiber.Map{"discord": "https://discord.gg/abc"},
		"themeSettings": fiber.Map{"currentTheme": "dark", "primaryColor": "#112233"},
	}, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/site-settings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		SiteTitle     string            `json:"siteTitle"`
		FooterText    string            `json:"footerText"`
		SocialLinks   map[string]string `json:"socialLinks"`
		ThemeSettings map[string]string `json:"themeSettings"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "New Hub", got.SiteTitle)
	assert.Equal(t, "bye", got.FooterText)
	assert.Equal(t, "https://discord.gg/abc", got.SocialLinks["discord"])
	assert.Equal(t, "#112233", got.ThemeSettings["primaryColor"])

	resp, _ = env.do(t, http.MethodPut, "/api/admin/site-settings", fiber.Map{}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/update-password", fiber.Map{"newPassword": "another-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sid := env.login(t, testAdminPassword)

	resp, _ = env.do(t, http.MethodPost, "/api/update-password", fiber.Map{"newPassword": "abc"}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/update-password", fiber.Map{
		"currentPassword": testAdminPassword,
		"newPassword":     "another-pass",
	}, sid)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/login", fiber.Map{"password": testAdminPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	env.login(t, "another-pass")
}

func TestChannelStatsWithoutTwitch(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/twitch/rennsz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, models.CodeUnavailable, decodeError(t, body).Code)

	resp, _ = env.do(t, http.MethodGet, "/api/twitch/ab", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

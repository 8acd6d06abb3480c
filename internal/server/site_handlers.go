package server

import (
	"streamsite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSiteSettings returns the site-wide text, links and theme
// @Summary Site settings
// @Tags site
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Failure 404 {object} models.ErrorResponse
// @Router /site-settings [get]
func (s *Server) GetSiteSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSiteSettings handles PUT /api/admin/site-settings
// @Summary Patch site settings
// @Description Top-level fields present in the body replace the stored values
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.SiteSettingsPatch true "Changed fields"
// @Success 200 {object} models.SiteSettings
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/site-settings [put]
func (s *Server) UpdateSiteSettings(c *fiber.Ctx) error {
	var patch models.SiteSettingsPatch
	if err := bindJSON(c, &patch); err != nil {
		return nil
	}

	settings, err := s.settingsService.Update(c.UserContext(), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// GetChannelStats returns live numbers for a Twitch channel
// @Summary Twitch channel stats
// @Tags site
// @Produce json
// @Param channel path string true "Twitch login"
// @Success 200 {object} models.ChannelStats
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /twitch/{channel} [get]
func (s *Server) GetChannelStats(c *fiber.Ctx) error {
	stats, err := s.statsService.Get(c.UserContext(), c.Params("channel"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

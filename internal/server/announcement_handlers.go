package server

import (
	"streamsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAnnouncements returns announcements newest first
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	items, err := s.announcementService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// CreateAnnouncement handles POST /api/admin/announcements
// @Summary Create announcement
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.AnnouncementInput true "Announcement"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/announcements [post]
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	var req service.AnnouncementInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	a, err := s.announcementService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/:id
// @Summary Replace announcement
// @Description createdAt is kept from the original
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param request body service.AnnouncementInput true "Announcement"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/announcements/{id} [put]
func (s *Server) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.AnnouncementInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	a, err := s.announcementService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/:id
// @Summary Delete announcement
// @Tags admin
// @Param id path int true "Announcement ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/announcements/{id} [delete]
func (s *Server) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.announcementService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

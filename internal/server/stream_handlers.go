package server

import (
	"streamsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetStreams returns every stream
// @Summary List streams
// @Tags streams
// @Produce json
// @Success 200 {array} models.Stream
// @Router /streams [get]
func (s *Server) GetStreams(c *fiber.Ctx) error {
	streams, err := s.streamService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(streams)
}

// GetFeaturedStream returns the stream shown in the homepage hero
// @Summary Featured stream
// @Tags streams
// @Produce json
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Router /streams/featured [get]
func (s *Server) GetFeaturedStream(c *fiber.Ctx) error {
	stream, err := s.streamService.GetFeatured(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stream)
}

// CreateStream handles POST /api/admin/streams
// @Summary Create stream
// @Description A featured stream replaces the current featured one
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.StreamInput true "Stream"
// @Success 201 {object} models.Stream
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/streams [post]
func (s *Server) CreateStream(c *fiber.Ctx) error {
	var req service.StreamInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	stream, err := s.streamService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stream)
}

// UpdateStream handles PUT /api/admin/streams/:id
// @Summary Replace stream
// @Description Omitting isFeatured unfeatures the stream
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Stream ID"
// @Param request body service.StreamInput true "Stream"
// @Success 200 {object} models.Stream
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/streams/{id} [put]
func (s *Server) UpdateStream(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.StreamInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	stream, err := s.streamService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stream)
}

// SetFeaturedStream handles PUT /api/admin/streams/:id/featured
// @Summary Feature stream
// @Tags admin
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} models.Stream
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/streams/{id}/featured [put]
func (s *Server) SetFeaturedStream(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	stream, err := s.streamService.SetFeatured(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stream)
}

// DeleteStream handles DELETE /api/admin/streams/:id
// @Summary Delete stream
// @Tags admin
// @Param id path int true "Stream ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/streams/{id} [delete]
func (s *Server) DeleteStream(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.streamService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"streamsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGallery returns every gallery image
// @Summary List gallery images
// @Tags gallery
// @Produce json
// @Success 200 {array} models.GalleryImage
// @Router /gallery [get]
func (s *Server) GetGallery(c *fiber.Ctx) error {
	images, err := s.galleryService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(images)
}

// CreateGalleryImage handles POST /api/admin/gallery
// @Summary Create gallery image
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.GalleryImageInput true "Image"
// @Success 201 {object} models.GalleryImage
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/gallery [post]
func (s *Server) CreateGalleryImage(c *fiber.Ctx) error {
	var req service.GalleryImageInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	img, err := s.galleryService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// UpdateGalleryImage handles PUT /api/admin/gallery/:id
// @Summary Replace gallery image
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Image ID"
// @Param request body service.GalleryImageInput true "Image"
// @Success 200 {object} models.GalleryImage
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/gallery/{id} [put]
func (s *Server) UpdateGalleryImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.GalleryImageInput
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	img, err := s.galleryService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(img)
}

// DeleteGalleryImage handles DELETE /api/admin/gallery/:id
// @Summary Delete gallery image
// @Tags admin
// @Param id path int true "Image ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/gallery/{id} [delete]
func (s *Server) DeleteGalleryImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.galleryService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"streamsite/internal/middleware"
	"streamsite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the body of POST /api/login. Username may be omitted for
// the configured admin account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdatePasswordRequest is the body of POST /api/update-password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/login
// @Summary Admin login
// @Description Checks the admin credentials and starts a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	// fresh ID on privilege change
	if err := sess.Regenerate(); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "admin logged in", "user_id", user.ID)
	return c.JSON(user)
}

// Logout handles POST /api/logout
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	if err := sess.Destroy(); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// CurrentUser handles GET /api/user
// @Summary Current admin
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /user [get]
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Unauthorized"))
	}
	return c.JSON(user)
}

// UpdatePassword handles POST /api/update-password
// @Summary Change the admin password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdatePasswordRequest true "Passwords"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /update-password [post]
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	userID, _ := c.Locals("userID").(uint)
	if err := s.authService.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

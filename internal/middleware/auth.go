package middleware

import (
	"context"
	"errors"

	"streamsite/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionUserKey is the session field holding the signed-in admin's user ID.
const SessionUserKey = "admin_user_id"

// AdminLookup loads the user behind a session. It returns a not-found
// AppError when the user no longer exists.
type AdminLookup func(ctx context.Context, userID uint) (*models.User, error)

// SessionUserID returns the admin user ID stored in the request's session.
func SessionUserID(sess *session.Session) (uint, bool) {
	id, ok := sess.Get(SessionUserKey).(uint)
	return id, ok && id != 0
}

// RequireAdmin rejects requests without a valid admin session with 401.
// On success the admin user is stored in c.Locals("user") and its ID in
// c.Locals("userID") and the user context.
func RequireAdmin(store *session.Store, lookup AdminLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}

		userID, ok := SessionUserID(sess)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		user, err := lookup(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Account is gone; the session is useless.
				_ = sess.Destroy()
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Unauthorized"))
			}
			Logger.ErrorContext(c.UserContext(), "admin session lookup failed", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, user.ID))

		return c.Next()
	}
}

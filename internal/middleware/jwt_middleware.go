package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"accountd/internal/models"
	"accountd/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the c.Locals key holding the authenticated *models.User.
const CurrentUserKey = "currentUser"

// AuthRequired is a Fiber middleware that resolves the bearer token to a live
// user on every request. The 401 body never says why authentication failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				return unauthorized(c)
			}
			slog.Error("authentication lookup failed", "request_id", c.Locals("requestid"), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal server error",
			})
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Could not validate credentials",
	})
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package handlers

import (
	"errors"
	"log/slog"

	"accountd/internal/models"
	"accountd/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister creates an account and returns a bearer token for it.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	token, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user registered", "username", req.Username, "request_id", c.Locals("requestid"))
	return c.JSON(models.NewTokenResponse(token))
}

// HandleLogin accepts JSON or an OAuth2 password form and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	token, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}
		return respondError(c, err)
	}

	return c.JSON(models.NewTokenResponse(token))
}

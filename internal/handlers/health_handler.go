package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed mock_data/users.json
var mockUsers []byte

// HealthHandler serves liveness and the static mock endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes registers the public utility routes.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/mock/users", h.HandleMockUsers)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleMockUsers returns a fixed user list for frontend development.
func (h *HealthHandler) HandleMockUsers(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(mockUsers)
}

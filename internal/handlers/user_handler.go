package handlers

import (
	"log/slog"

	"accountd/internal/middleware"
	"accountd/internal/models"
	"accountd/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// UserHandler serves CRUD over users.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes behind auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users", auth)
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleListUsers returns a page of users selected by ?skip= and ?limit=.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	fields := models.FieldErrors{}
	skip := queryInt(c, "skip", defaultSkip, fields)
	limit := queryInt(c, "limit", defaultLimit, fields)
	if len(fields) > 0 {
		return respondError(c, fields)
	}

	users, err := h.service.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewUserResponses(users))
}

// HandleCreateUser creates a user on behalf of an authenticated caller.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	logAction(c, "user created", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// HandleUpdateUser applies a partial update to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	logAction(c, "user updated", user.ID)
	return c.JSON(user.ToResponse())
}

// HandleDeleteUser hard-deletes a user and answers 204 with no body.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	logAction(c, "user deleted", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func logAction(c *fiber.Ctx, msg string, id uint) {
	actor := ""
	if user := middleware.CurrentUser(c); user != nil {
		actor = user.Username
	}
	slog.Info(msg, "user_id", id, "actor", actor, "request_id", c.Locals("requestid"))
}

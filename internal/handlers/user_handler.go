package handlers

import (
	"context"
	"time"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(app *fiber.App) {
	publicGroup := app.Group("/public/users")
	publicGroup.Get("/", h.ListPublicUsers)
	publicGroup.Get("/:userId", h.GetUser)
	publicGroup.Post("/:userId/views", h.IncrementViews)

	protectedGroup := app.Group("/protected/users")
	protectedGroup.Post("/", h.CreateUser, middleware.PermissionRequired(middleware.UpdateUserPermission))
	protectedGroup.Put("/me/skills", h.UpdateMySkills, middleware.PermissionRequired(middleware.UpdateUserPermission))
}

func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		return respondError(c, err, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    user,
		"message": "User created successfully",
	})
}

func (h *UserHandler) GetUser(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.userService.Get(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": user,
	})
}

func (h *UserHandler) ListPublicUsers(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := h.userService.ListPublic(ctx)
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": users,
	})
}

func (h *UserHandler) UpdateMySkills(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	var req models.UpdateSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.userService.UpdateSkills(ctx, userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to update skills")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    user,
		"message": "Skills updated successfully",
	})
}

func (h *UserHandler) IncrementViews(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.userService.IncrementProfileViews(ctx, c.Params("userId")); err != nil {
		return respondError(c, err, "Failed to record profile view")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile view recorded",
	})
}

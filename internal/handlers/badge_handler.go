package handlers

import (
	"context"
	"time"

	"swap-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type BadgeHandler struct {
	badgeService *service.BadgeService
}

func NewBadgeHandler(badgeService *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
	}
}

func (h *BadgeHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/public/badges")

	group.Get("/user/:userId", h.GetUserBadges)
	group.Get("/user/:userId/earned", h.GetEarnedBadges)
	group.Get("/user/:userId/stats", h.GetBadgeStats)
}

func (h *BadgeHandler) GetUserBadges(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	badges, err := h.badgeService.GetUserBadges(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to load badges")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": badges,
	})
}

func (h *BadgeHandler) GetEarnedBadges(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	badges, err := h.badgeService.GetEarnedBadges(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to load earned badges")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": badges,
	})
}

func (h *BadgeHandler) GetBadgeStats(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := h.badgeService.GetBadgeStats(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to load badge stats")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": stats,
	})
}

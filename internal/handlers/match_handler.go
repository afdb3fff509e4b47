package handlers

import (
	"context"
	"time"

	"swap-service/internal/middleware"
	"swap-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func (h *MatchHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/matches")

	group.Get("/", h.GetPotentialMatches, middleware.PermissionRequired(middleware.ReadUserPermission))
	group.Get("/:userId", h.GetMatchScore, middleware.PermissionRequired(middleware.ReadUserPermission))
}

func (h *MatchHandler) GetPotentialMatches(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matches, err := h.matchService.PotentialMatches(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to compute matches")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": matches,
	})
}

func (h *MatchHandler) GetMatchScore(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	breakdown, err := h.matchService.ScoreAgainst(ctx, userID, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to compute match score")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": breakdown,
	})
}

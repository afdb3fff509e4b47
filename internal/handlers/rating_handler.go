package handlers

import (
	"context"
	"time"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type RatingHandler struct {
	ratingService *service.RatingService
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

func (h *RatingHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/protected/ratings/:userId", h.SubmitRating, middleware.PermissionRequired(middleware.CreateRatingPermission))

	publicGroup := app.Group("/public/ratings")
	publicGroup.Get("/user/:userId", h.GetUserRatings)
	publicGroup.Get("/user/:userId/average", h.GetAverageRating)
}

func (h *RatingHandler) SubmitRating(c fiber.Ctx) error {
	raterID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	var req models.SubmitRatingRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rating, err := h.ratingService.Submit(ctx, raterID, c.Params("userId"), &req)
	if err != nil {
		return respondError(c, err, "Failed to submit rating")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    rating,
		"message": "Rating submitted successfully",
	})
}

func (h *RatingHandler) GetUserRatings(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ratings, err := h.ratingService.ListForUser(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to list ratings")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": ratings,
	})
}

func (h *RatingHandler) GetAverageRating(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	avg, err := h.ratingService.AverageForUser(ctx, c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to get average rating")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": avg,
	})
}

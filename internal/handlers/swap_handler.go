package handlers

import (
	"context"
	"time"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type SwapHandler struct {
	swapService *service.SwapService
}

func NewSwapHandler(swapService *service.SwapService) *SwapHandler {
	return &SwapHandler{
		swapService: swapService,
	}
}

func (h *SwapHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/swaps")

	group.Post("/", h.CreateSwap, middleware.PermissionRequired(middleware.CreateSwapPermission))
	group.Get("/", h.GetUserSwaps, middleware.PermissionRequired(middleware.ReadSwapPermission))
	group.Get("/pending", h.GetPendingSwaps, middleware.PermissionRequired(middleware.ReadSwapPermission))
	group.Get("/:id", h.GetSwap, middleware.PermissionRequired(middleware.ReadSwapPermission))
	group.Put("/:id/accept", h.AcceptSwap, middleware.PermissionRequired(middleware.UpdateSwapPermission))
	group.Put("/:id/reject", h.RejectSwap, middleware.PermissionRequired(middleware.UpdateSwapPermission))
	group.Put("/:id/cancel", h.CancelSwap, middleware.PermissionRequired(middleware.UpdateSwapPermission))
	group.Put("/:id/complete", h.CompleteSwap, middleware.PermissionRequired(middleware.UpdateSwapPermission))
}

func (h *SwapHandler) CreateSwap(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	var req models.CreateSwapRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	swap, err := h.swapService.Create(ctx, userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to create swap request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    swap,
		"message": "Swap request created successfully",
	})
}

func (h *SwapHandler) GetSwap(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	swap, err := h.swapService.GetByID(ctx, c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "Failed to get swap request")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": swap,
	})
}

func (h *SwapHandler) GetUserSwaps(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	swaps, err := h.swapService.GetUserSwaps(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to list swap requests")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": swaps,
	})
}

func (h *SwapHandler) GetPendingSwaps(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	swaps, err := h.swapService.GetPendingIncoming(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to list pending swap requests")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": swaps,
	})
}

func (h *SwapHandler) AcceptSwap(c fiber.Ctx) error {
	return h.updateStatus(c, h.swapService.Accept, "Swap request accepted")
}

func (h *SwapHandler) RejectSwap(c fiber.Ctx) error {
	return h.updateStatus(c, h.swapService.Reject, "Swap request rejected")
}

func (h *SwapHandler) CancelSwap(c fiber.Ctx) error {
	return h.updateStatus(c, h.swapService.Cancel, "Swap request cancelled")
}

func (h *SwapHandler) CompleteSwap(c fiber.Ctx) error {
	return h.updateStatus(c, h.swapService.Complete, "Swap request completed")
}

func (h *SwapHandler) updateStatus(c fiber.Ctx, op func(context.Context, string, string) (*models.SwapRequest, error), message string) error {
	userID, ok := requireUserID(c)
	if !ok {
		return missingUser(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	swap, err := op(ctx, c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "Failed to update swap request")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    swap,
		"message": message,
	})
}

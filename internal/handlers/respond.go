package handlers

import (
	"log"

	"swap-service/internal/apperror"

	"github.com/gofiber/fiber/v3"
)

// statusForError maps the domain error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusForbidden
	case apperror.KindInvalidState:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c fiber.Ctx, err error, fallback string) error {
	status := statusForError(err)
	message := fallback
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	} else {
		log.Printf("%s: %v", fallback, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// requireUserID reads the authenticated user set by the gateway.
func requireUserID(c fiber.Ctx) (string, bool) {
	userID := c.Get("X-User-ID")
	return userID, userID != ""
}

func missingUser(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "User not authenticated",
	})
}

package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	// Swap permissions
	CreateSwapPermission = "create:swap"
	UpdateSwapPermission = "update:swap"
	ReadSwapPermission   = "read:swap"

	// Rating permissions
	CreateRatingPermission = "create:rating"

	// User permissions
	UpdateUserPermission = "update:user"
	ReadUserPermission   = "read:user"

	// Admin permissions (for backward compatibility)
	AdminPermission = "admin"
)

// PermissionRequired checks the permission list forwarded by the gateway
// in X-User-Permissions. Admin and manager grants bypass the check.
func PermissionRequired(requiredPermission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		log.Println("Permission required function called from", c.IP(), "Calling", c.Method(), "Request", c.OriginalURL())
		userPermissions := c.Get("X-User-Permissions")
		hasPermission := false
		if userPermissions != "" {
			permissions := strings.Split(userPermissions, ",")

			for _, perm := range permissions {
				if perm == requiredPermission || strings.HasPrefix(perm, "admin") || strings.HasPrefix(perm, "manager") {
					hasPermission = true
					break
				}
			}
		}

		if !hasPermission {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldserve/repairline/internal/ports"
)

// AuthRequired guards the admin API. Validated claims land in locals under
// "claims" and "tenant_id".
func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}

		claims, err := service.ValidateToken(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("claims", claims)
		c.Locals("tenant_id", claims.TenantID)
		c.Locals("admin_role", claims.Role)

		return c.Next()
	}
}

// TenantID returns the authenticated tenant from request locals.
func TenantID(c *fiber.Ctx) string {
	if id, ok := c.Locals("tenant_id").(string); ok {
		return id
	}
	return ""
}

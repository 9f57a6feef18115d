package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hireform-api/internal/utils"
)

const (
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if _, ok := allowed[normalizeRole(role)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

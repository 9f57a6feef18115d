package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func roleApp(role interface{}) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(RoleHR, RoleAdmin))
	app.Get("/forms", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	for _, role := range []string{"hr", "Admin", " HR "} {
		resp, err := roleApp(role).Test(httptest.NewRequest(http.MethodGet, "/forms", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, role)
	}
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	for _, role := range []interface{}{"candidate", nil, 42} {
		resp, err := roleApp(role).Test(httptest.NewRequest(http.MethodGet, "/forms", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	}
}

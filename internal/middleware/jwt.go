package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/hireform-api/internal/utils"
)

// JWTProtected validates HMAC-signed bearer tokens issued by the identity
// service and exposes the subject and role as user_id and user_role locals.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(strings.TrimSpace(authorization[len(bearer):]), claims, keyFunc)
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		userID, ok := userIDFromClaims(claims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals("user_id", userID)
		if role := roleFromClaims(claims); role != "" {
			c.Locals("user_role", role)
		}

		return c.Next()
	}
}

// UserID returns the authenticated user id set by JWTProtected.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok && id > 0
}

func userIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	for _, key := range []string{"sub", "user_id", "id"} {
		if value, ok := claims[key]; ok {
			if id, err := parseUserID(value); err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}

func parseUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, fmt.Errorf("invalid subject %v", v)
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type %T", value)
	}
}

func roleFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "roles"} {
		switch v := claims[key].(type) {
		case string:
			if role := normalizeRole(v); role != "" {
				return role
			}
		case []interface{}:
			for _, item := range v {
				if str, ok := item.(string); ok && normalizeRole(str) != "" {
					return normalizeRole(str)
				}
			}
		}
	}
	return ""
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

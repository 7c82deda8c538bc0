// middleware/user_context.go
package middleware

import (
	"log"
	"strings"

	"league-management-system/authz"

	"github.com/gofiber/fiber/v2"
)

// AdminRole is the gateway role that maps to the administrator flag.
const AdminRole = "admin"

// UserContextMiddleware extracts the acting identity set by the Gateway
// (X-User-ID, X-User-Roles) and attaches it to the request context. The
// identity itself is opaque — the auth service owns it; this service
// only derives the administrator flag from the forwarded roles.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		isAdmin := false
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r == "" {
					continue
				}
				roles = append(roles, r)
				if r == AdminRole {
					isAdmin = true
				}
			}
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		c.Locals("actor", authz.Actor{ID: userID, Admin: isAdmin})

		return c.Next()
	}
}


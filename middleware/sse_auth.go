// middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"league-management-system/authz"
	"league-management-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates `token` from the query string via the
// auth service. EventSource cannot set headers, so SSE routes bypass
// the gateway's header-based auth and carry the token themselves.
//
// Usage:
//
//	app.Get("/matches/:id/score/stream", middleware.SSEAuthMiddleware(authClient), matchService.StreamScoreSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("token")))

		if accessToken == "" {
			log.Printf("[SSEAuth] ❌ Missing token query param for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for token (prefix: %s...): %v",
				accessToken[:min(10, len(accessToken))], err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		isAdmin := false
		for _, r := range resp.Roles {
			if r == AdminRole {
				isAdmin = true
			}
		}

		// Same locals UserContextMiddleware sets, but sourced from the query
		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)
		c.Locals("actor", authz.Actor{ID: resp.UserID, Admin: isAdmin})

		log.Printf("[SSEAuth] ✅ Authenticated user %s", resp.UserID)
		return c.Next()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// handlers/match_routes.go
package handlers

import (
	"league-management-system/middleware"
	"league-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, statsService *services.StatsService, authClient *services.AuthServiceClient) {
	// 🔓 Public routes — the events feed and match pages
	app.Get("/events", matchService.GetEvents)
	app.Get("/matches/:id", matchService.GetMatchByID)
	app.Get("/matches/:id/statistics", statsService.GetMatchStatistics)
	app.Get("/statistics/summary", statsService.GetSummary)

	// SSE live score stream — EventSource cannot send headers, so the
	// token rides the query string and is validated against the auth service
	app.Get("/matches/:id/score/stream", middleware.SSEAuthMiddleware(authClient), matchService.StreamScoreSSE)

	// 🔐 Secured routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/matches", matchService.CreateMatch)
	secured.Put("/matches/:id", matchService.UpdateMatch)
	secured.Patch("/matches/:id", matchService.UpdateMatch)
	secured.Delete("/matches/:id", matchService.DeleteMatch)
	secured.Post("/matches/:id/score", matchService.AdjustScore)

	// Statistic lines (admin only, checked in the service)
	secured.Post("/matches/:id/statistics", statsService.CreateStatistic)
	secured.Post("/statistics", statsService.CreateStatistic)
	secured.Put("/statistics/:id", statsService.UpdateStatistic)
	secured.Patch("/statistics/:id", statsService.UpdateStatistic)
	secured.Delete("/statistics/:id", statsService.DeleteStatistic)
}

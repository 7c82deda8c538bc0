// handlers/team_routes.go
package handlers

import (
	"league-management-system/middleware"
	"league-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, playerService *services.PlayerService) {
	// 🔓 Public routes — team pages and player profiles are readable by anyone
	app.Get("/teams/:id", teamService.GetTeamByID)
	app.Get("/players/:id", playerService.GetPlayerByID)

	// 🔐 Secured routes — listings are owner-scoped; writes check ownership
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/teams", teamService.GetAllTeams)
	secured.Post("/teams", teamService.CreateTeam)
	secured.Put("/teams/:id", teamService.UpdateTeam)
	secured.Patch("/teams/:id", teamService.UpdateTeam)
	secured.Delete("/teams/:id", teamService.DeleteTeam)

	secured.Get("/players", playerService.GetAllPlayers)
	secured.Post("/players", playerService.CreatePlayer)
	secured.Put("/players/:id", playerService.UpdatePlayer)
	secured.Patch("/players/:id", playerService.UpdatePlayer)
	secured.Delete("/players/:id", playerService.DeletePlayer)
}

// handlers/sport_routes.go
package handlers

import (
	"league-management-system/middleware"
	"league-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSportRoutes(app *fiber.App, sportService *services.SportService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/sports", sportService.GetAllSports)
	app.Get("/sports/:id", sportService.GetSportByID)

	// 🔐 Secured routes — sport writes are admin-only, checked in the service
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/sports", sportService.CreateSport)
	secured.Put("/sports/:id", sportService.UpdateSport)
	secured.Patch("/sports/:id", sportService.UpdateSport)
	secured.Delete("/sports/:id", sportService.DeleteSport)
}

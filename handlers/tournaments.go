// handlers/tournament_routes.go
package handlers

import (
	"league-management-system/middleware"
	"league-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, enrollmentService *services.EnrollmentService) {
	// 🔓 Public routes — competition pages
	app.Get("/tournaments", tournamentService.GetAllTournaments)
	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)
	app.Get("/tournaments/:id/standings", tournamentService.GetStandings)
	app.Get("/users/search", tournamentService.SearchUsers)

	// 🔐 Secured routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Tournament CRUD and fixture generation (admin only, checked in the service)
	secured.Post("/tournaments", tournamentService.CreateTournament)
	secured.Put("/tournaments/:id", tournamentService.UpdateTournament)
	secured.Patch("/tournaments/:id", tournamentService.UpdateTournament)
	secured.Delete("/tournaments/:id", tournamentService.DeleteTournament)
	secured.Post("/tournaments/:id/fixtures", tournamentService.GenerateFixtures)

	// Enrollments — team owners enroll their own teams
	secured.Get("/enrollments", enrollmentService.GetEnrollments)
	secured.Post("/enrollments", enrollmentService.CreateEnrollment)
	secured.Put("/enrollments/:id", enrollmentService.UpdateEnrollment)
	secured.Patch("/enrollments/:id", enrollmentService.UpdateEnrollment)
	secured.Delete("/enrollments/:id", enrollmentService.DeleteEnrollment)
}

package services

import (
	"errors"
	"log"

	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	DB *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db}
}

type enrollmentRequest struct {
	TournamentID string `json:"tournament_id"`
	TeamID       string `json:"team_id"`
	Paid         *bool  `json:"paid"`
	Points       *int   `json:"points"`
}

// GetEnrollments lists enrollments, scoped to the actor's teams unless
// admin. Optional tournament filter.
func (s *EnrollmentService) GetEnrollments(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	query := s.DB.Preload("Team").Preload("Tournament")
	if tournamentID := c.Query("tournament"); tournamentID != "" {
		query = query.Where("tournament_id = ?", tournamentID)
	}
	if !actor.Admin {
		ownedTeams := s.DB.Model(&models.Team{}).Select("id").Where("external_user_id = ?", actor.ID)
		query = query.Where("team_id IN (?)", ownedTeams)
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch enrollments", "details": err.Error()})
	}
	return c.JSON(enrollments)
}

// CreateEnrollment registers a team into a tournament. The caller must
// own the team; the sports must match; one enrollment per pair — the
// unique index is the final referee when two requests race.
func (s *EnrollmentService) CreateEnrollment(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var req enrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TournamentID == "" || req.TeamID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "tournament_id and team_id are required"})
	}

	var team models.Team
	if err := s.DB.Preload("Sport").First(&team, "id = ?", req.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "team_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking team", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &team) {
		return c.Status(403).JSON(fiber.Map{"error": "you cannot enroll a team that is not yours"})
	}

	var tournament models.Tournament
	if err := s.DB.Preload("Sport").First(&tournament, "id = ?", req.TournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking tournament", "details": err.Error()})
	}
	if tournament.Status != models.TournamentEnrollmentOpen {
		return c.Status(400).JSON(fiber.Map{"error": "tournament is not open for enrollment"})
	}

	enrollment := models.Enrollment{
		TournamentID: tournament.ID,
		TeamID:       team.ID,
		Team:         team,
		Tournament:   tournament,
	}
	if req.Paid != nil {
		enrollment.Paid = *req.Paid
	}

	if errs := validation.ValidateEnrollment(&enrollment); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	if err := s.DB.Omit("Team", "Tournament").Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "team is already enrolled in this tournament"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create enrollment", "details": err.Error()})
	}
	log.Printf("✅ Team %q enrolled in %q", team.Name, tournament.Name)
	return c.Status(201).JSON(enrollment)
}

// UpdateEnrollment adjusts the paid flag or standings points. Points
// are normally maintained by result entry; this is the manual override.
func (s *EnrollmentService) UpdateEnrollment(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var enrollment models.Enrollment
	if err := s.DB.Preload("Team").Preload("Tournament").
		First(&enrollment, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "enrollment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching enrollment", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &enrollment) {
		return c.Status(404).JSON(fiber.Map{"error": "enrollment not found"})
	}

	var req enrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TeamID != "" && req.TeamID != enrollment.TeamID {
		return c.Status(400).JSON(fiber.Map{"error": "an enrollment's team cannot change"})
	}
	if req.TournamentID != "" && req.TournamentID != enrollment.TournamentID {
		return c.Status(400).JSON(fiber.Map{"error": "an enrollment's tournament cannot change"})
	}
	if req.Paid != nil {
		enrollment.Paid = *req.Paid
	}
	if req.Points != nil {
		enrollment.Points = *req.Points
	}

	if err := s.DB.Omit("Team", "Tournament").Save(&enrollment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update enrollment", "details": err.Error()})
	}
	return c.JSON(enrollment)
}

// DeleteEnrollment withdraws a team from a tournament.
func (s *EnrollmentService) DeleteEnrollment(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var enrollment models.Enrollment
	if err := s.DB.Preload("Team").First(&enrollment, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "enrollment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching enrollment", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &enrollment) {
		return c.Status(404).JSON(fiber.Map{"error": "enrollment not found"})
	}

	if err := s.DB.Delete(&enrollment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete enrollment", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "enrollment deleted"})
}

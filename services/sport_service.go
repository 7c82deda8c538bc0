package services

import (
	"errors"
	"log"

	"league-management-system/authz"
	"league-management-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SportService struct {
	DB *gorm.DB
}

func NewSportService(db *gorm.DB) *SportService {
	return &SportService{DB: db}
}

type sportRequest struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	ScoringSystem  string `json:"scoring_system"`
	PlayersPerTeam int    `json:"players_per_team"`
}

func validSportCategory(c string) bool {
	return c == models.SportCategoryTeam || c == models.SportCategoryIndividual
}

func validScoringSystem(s string) bool {
	switch s {
	case models.ScoringGoals, models.ScoringBaskets, models.ScoringSets, models.ScoringPoints:
		return true
	}
	return false
}

// GetAllSports lists every sport, ordered by name.
func (s *SportService) GetAllSports(c *fiber.Ctx) error {
	var sports []models.Sport
	if err := s.DB.Order("name ASC").Find(&sports).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch sports", "details": err.Error()})
	}
	return c.JSON(sports)
}

func (s *SportService) GetSportByID(c *fiber.Ctx) error {
	var sport models.Sport
	if err := s.DB.First(&sport, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "sport not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching sport", "details": err.Error()})
	}
	return c.JSON(sport)
}

// CreateSport registers a new discipline. Sports carry no owner, so
// only administrators get here.
func (s *SportService) CreateSport(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var req sportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Category == "" {
		req.Category = models.SportCategoryTeam
	}
	if !validSportCategory(req.Category) {
		return c.Status(400).JSON(fiber.Map{"error": "category must be 'team' or 'individual'"})
	}
	if req.ScoringSystem == "" {
		req.ScoringSystem = models.ScoringPoints
	}
	if !validScoringSystem(req.ScoringSystem) {
		return c.Status(400).JSON(fiber.Map{"error": "unknown scoring_system"})
	}
	if req.PlayersPerTeam == 0 {
		req.PlayersPerTeam = 1
	}
	if req.PlayersPerTeam < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "players_per_team must be at least 1"})
	}

	sport := models.Sport{
		Name:           req.Name,
		Category:       req.Category,
		ScoringSystem:  req.ScoringSystem,
		PlayersPerTeam: req.PlayersPerTeam,
	}
	if err := s.DB.Create(&sport).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "a sport with this name already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create sport", "details": err.Error()})
	}
	return c.Status(201).JSON(sport)
}

func (s *SportService) UpdateSport(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var sport models.Sport
	if err := s.DB.First(&sport, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "sport not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching sport", "details": err.Error()})
	}

	var req sportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name != "" {
		sport.Name = req.Name
	}
	if req.Category != "" {
		if !validSportCategory(req.Category) {
			return c.Status(400).JSON(fiber.Map{"error": "category must be 'team' or 'individual'"})
		}
		sport.Category = req.Category
	}
	if req.ScoringSystem != "" {
		if !validScoringSystem(req.ScoringSystem) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown scoring_system"})
		}
		sport.ScoringSystem = req.ScoringSystem
	}
	if req.PlayersPerTeam != 0 {
		if req.PlayersPerTeam < 1 {
			return c.Status(400).JSON(fiber.Map{"error": "players_per_team must be at least 1"})
		}
		sport.PlayersPerTeam = req.PlayersPerTeam
	}

	if err := s.DB.Save(&sport).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "a sport with this name already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to update sport", "details": err.Error()})
	}
	return c.JSON(sport)
}

// DeleteSport removes a discipline. Blocked while any tournament still
// references it — teams switch sports by being recreated, tournaments
// never do.
func (s *SportService) DeleteSport(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	id := c.Params("id")
	var sport models.Sport
	if err := s.DB.First(&sport, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "sport not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching sport", "details": err.Error()})
	}

	var tournamentCount int64
	if err := s.DB.Model(&models.Tournament{}).Where("sport_id = ?", id).Count(&tournamentCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking tournaments", "details": err.Error()})
	}
	if tournamentCount > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error":       "sport has tournaments and cannot be deleted",
			"tournaments": tournamentCount,
		})
	}

	if err := s.DB.Delete(&sport).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete sport", "details": err.Error()})
	}
	log.Printf("🗑️ Deleted sport %s (%s)", sport.Name, sport.ID)
	return c.JSON(fiber.Map{"message": "sport deleted"})
}

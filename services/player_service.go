package services

import (
	"errors"
	"strconv"

	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// ownedTeamIDs is the subquery scoping players to teams the actor manages.
func (s *PlayerService) ownedTeamIDs(actor authz.Actor) *gorm.DB {
	return s.DB.Model(&models.Team{}).Select("id").Where("external_user_id = ?", actor.ID)
}

// GetAllPlayers lists players ordered by team and jersey. Non-admins
// only see players of their own teams.
func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	query := s.DB.Preload("Team").Order("team_id, jersey_number")
	if !actor.Admin {
		query = query.Where("team_id IN (?)", s.ownedTeamIDs(actor))
	}

	var players []models.Player
	if err := query.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch players", "details": err.Error()})
	}
	return c.JSON(players)
}

// GetPlayerByID backs the public player profile page.
func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.Preload("Team").Preload("Team.Sport").
		First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching player", "details": err.Error()})
	}
	return c.JSON(player)
}

// parseJersey reads the optional jersey_number form field. Empty means
// unassigned; the value itself is range-checked by the validator.
func parseJersey(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreatePlayer adds a player, optionally assigned to one of the acting
// user's teams. Multipart form so the photo can ride along.
func (s *PlayerService) CreatePlayer(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	name := c.FormValue("name")
	teamID := c.FormValue("team_id")
	jersey, err := parseJersey(c.FormValue("jersey_number"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "jersey_number must be an integer"})
	}

	player := models.Player{Name: name, JerseyNumber: jersey}

	if teamID != "" {
		var team models.Team
		if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "team_id not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "DB error checking team", "details": err.Error()})
		}
		// Only the team's owner (or an admin) fills its roster.
		if !authz.CanWrite(actor, &team) {
			return c.Status(403).JSON(fiber.Map{"error": "you can only add players to your own teams"})
		}
		player.TeamID = &team.ID
		player.Team = &team
	}

	if errs := validation.ValidatePlayer(&player); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	photoURL, err := saveUpload(c, "photo", "players", name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store photo", "details": err.Error()})
	}
	player.PhotoURL = photoURL

	if err := s.DB.Create(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create player", "details": err.Error()})
	}
	return c.Status(201).JSON(player)
}

// UpdatePlayer edits a player. Authorization runs per object: the
// actor has to own the player's current team (one hop), and when
// moving the player, the destination team too.
func (s *PlayerService) UpdatePlayer(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var player models.Player
	if err := s.DB.Preload("Team").First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching player", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &player) {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}

	if name := c.FormValue("name"); name != "" {
		player.Name = name
	}
	if raw := c.FormValue("jersey_number"); raw != "" {
		jersey, err := parseJersey(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "jersey_number must be an integer"})
		}
		player.JerseyNumber = jersey
	}
	if teamID := c.FormValue("team_id"); teamID != "" && (player.TeamID == nil || teamID != *player.TeamID) {
		var team models.Team
		if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "team_id not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "DB error checking team", "details": err.Error()})
		}
		if !authz.CanWrite(actor, &team) {
			return c.Status(403).JSON(fiber.Map{"error": "you can only move players to your own teams"})
		}
		player.TeamID = &team.ID
		player.Team = &team
	}

	if errs := validation.ValidatePlayer(&player); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	photoURL, err := saveUpload(c, "photo", "players", player.Name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store photo", "details": err.Error()})
	}
	if photoURL != "" {
		player.PhotoURL = photoURL
	}

	if err := s.DB.Save(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update player", "details": err.Error()})
	}
	return c.JSON(player)
}

// DeletePlayer removes a player and their statistics.
func (s *PlayerService) DeletePlayer(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var player models.Player
	if err := s.DB.Preload("Team").First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching player", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &player) {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.MatchStatistic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&player).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete player", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "player deleted"})
}

package services

import (
	"errors"
	"log"

	"league-management-system/aggregation"
	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatsService owns per-match player statistics and the derived views
// computed from them.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

type statisticRequest struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Points   *int   `json:"points"`
	Minutes  *int   `json:"minutes"`
	Played   *bool  `json:"played"`
	Notes    string `json:"notes"`
}

// GetSummary is the league-wide statistics page: totals plus the three
// top-5 leaderboards. Recomputed from the full store on every call.
func (s *StatsService) GetSummary(c *fiber.Ctx) error {
	var stats []models.MatchStatistic
	if err := s.DB.Preload("Player").Preload("Player.Team").
		Order("created_at ASC").
		Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch statistics", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"totals":            aggregation.LeagueTotals(stats),
		"top_scorers":       aggregation.TopScorers(stats),
		"top_minutes":       aggregation.TopMinutes(stats),
		"top_participation": aggregation.TopParticipation(stats),
	})
}

// GetMatchStatistics lists one match's lines grouped for display:
// by team, then jersey, then name.
func (s *StatsService) GetMatchStatistics(c *fiber.Ctx) error {
	matchID := c.Params("id")

	var match models.Match
	if err := s.DB.Preload("Tournament").Preload("HomeTeam").Preload("AwayTeam").
		First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}

	var stats []models.MatchStatistic
	if err := s.DB.Preload("Player").Preload("Player.Team").
		Joins("JOIN players ON players.id = match_statistics.player_id").
		Joins("LEFT JOIN teams ON teams.id = players.team_id").
		Where("match_statistics.match_id = ?", matchID).
		Order("teams.name, players.jersey_number, players.name").
		Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch statistics", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"match":      match,
		"statistics": stats,
	})
}

// CreateStatistic records one player's line for one match. Statistics
// carry no ownership path, so only administrators write them. The
// roster rule always runs; the unique index settles concurrent
// duplicates.
func (s *StatsService) CreateStatistic(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var req statisticRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	// The per-match route fixes the match; the flat route requires it.
	if req.MatchID == "" {
		req.MatchID = c.Params("id")
	}
	if req.MatchID == "" || req.PlayerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "match_id and player_id are required"})
	}

	stat := models.MatchStatistic{
		MatchID:  req.MatchID,
		PlayerID: req.PlayerID,
		Notes:    req.Notes,
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "points cannot be negative"})
		}
		stat.Points = *req.Points
	}
	if req.Minutes != nil {
		if *req.Minutes < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "minutes cannot be negative"})
		}
		stat.Minutes = *req.Minutes
	}
	if req.Played != nil {
		stat.Played = *req.Played
	}

	if err := s.DB.First(&stat.Match, "id = ?", stat.MatchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking match", "details": err.Error()})
	}
	if err := s.DB.Preload("Team").First(&stat.Player, "id = ?", stat.PlayerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking player", "details": err.Error()})
	}

	if errs := validation.ValidateStatistic(&stat); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	if err := s.DB.Omit("Match", "Player").Create(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "a statistic for this player in this match already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create statistic", "details": err.Error()})
	}
	log.Printf("✅ Statistic recorded for player %s in match %s", stat.Player.Name, stat.MatchID)
	return c.Status(201).JSON(stat)
}

// UpdateStatistic edits a line. The match and player references are
// fixed; re-pointing a line would re-open the roster question.
func (s *StatsService) UpdateStatistic(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var stat models.MatchStatistic
	if err := s.DB.First(&stat, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "statistic not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching statistic", "details": err.Error()})
	}

	var req statisticRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.MatchID != "" && req.MatchID != stat.MatchID {
		return c.Status(400).JSON(fiber.Map{"error": "a statistic's match cannot change"})
	}
	if req.PlayerID != "" && req.PlayerID != stat.PlayerID {
		return c.Status(400).JSON(fiber.Map{"error": "a statistic's player cannot change"})
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "points cannot be negative"})
		}
		stat.Points = *req.Points
	}
	if req.Minutes != nil {
		if *req.Minutes < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "minutes cannot be negative"})
		}
		stat.Minutes = *req.Minutes
	}
	if req.Played != nil {
		stat.Played = *req.Played
	}
	if req.Notes != "" {
		stat.Notes = req.Notes
	}

	if err := s.DB.Save(&stat).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update statistic", "details": err.Error()})
	}
	return c.JSON(stat)
}

func (s *StatsService) DeleteStatistic(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var stat models.MatchStatistic
	if err := s.DB.First(&stat, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "statistic not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching statistic", "details": err.Error()})
	}

	if err := s.DB.Delete(&stat).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete statistic", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "statistic deleted"})
}

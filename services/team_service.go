package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/utils"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

// saveUpload stores a crest/photo and returns its public URL: R2 when
// configured, the local uploads dir otherwise. Returns "" when the form
// field is absent.
func saveUpload(c *fiber.Ctx, formField, prefix, name string) (string, error) {
	fileHeader, err := c.FormFile(formField)
	if err != nil || fileHeader == nil || fileHeader.Size == 0 {
		return "", nil // field absent: nothing to do
	}
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s-%s%s", prefix, slug.Make(name), uuid.NewString()[:8], ext)

	if utils.StorageEnabled() {
		return utils.UploadToStorage(fileHeader, key)
	}
	destPath := utils.GetUploadPath(key)
	if err := utils.SaveFile(fileHeader, destPath); err != nil {
		return "", err
	}
	return "/" + destPath, nil
}

// GetAllTeams lists teams: admins see every team, everyone else only
// their own. Each row carries its player count; the payload also totals
// the teams the caller manages.
func (s *TeamService) GetAllTeams(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	query := s.DB.Preload("Sport").Order("name ASC")
	if !actor.Admin {
		query = query.Where("external_user_id = ?", actor.ID)
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams", "details": err.Error()})
	}

	// Annotate player counts in one grouped query.
	type teamCount struct {
		TeamID string
		Count  int64
	}
	var counts []teamCount
	if err := s.DB.Model(&models.Player{}).
		Select("team_id, COUNT(id) AS count").
		Where("team_id IS NOT NULL").
		Group("team_id").
		Scan(&counts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to count players", "details": err.Error()})
	}
	byTeam := make(map[string]int64, len(counts))
	for _, tc := range counts {
		byTeam[tc.TeamID] = tc.Count
	}
	for i := range teams {
		teams[i].PlayerCount = byTeam[teams[i].ID]
	}

	return c.JSON(fiber.Map{
		"teams":       teams,
		"total_teams": len(teams),
	})
}

// GetTeamByID returns one team with its players and enrollments.
func (s *TeamService) GetTeamByID(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.Preload("Sport").Preload("Players").
		First(&team, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching team", "details": err.Error()})
	}

	var enrollments []models.Enrollment
	if err := s.DB.Preload("Tournament").
		Where("team_id = ?", team.ID).
		Find(&enrollments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching enrollments", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"team":        team,
		"enrollments": enrollments,
	})
}

// CreateTeam registers a team owned by the acting user. Accepts
// multipart form data so the crest can ride along.
func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	name := c.FormValue("name")
	coach := c.FormValue("coach")
	city := c.FormValue("city")
	sportID := c.FormValue("sport_id")

	if name == "" || sportID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and sport_id are required"})
	}

	var sport models.Sport
	if err := s.DB.First(&sport, "id = ?", sportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "sport_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking sport", "details": err.Error()})
	}

	team := models.Team{
		ExternalUserID: actor.ID,
		Name:           name,
		Coach:          coach,
		City:           city,
		SportID:        sport.ID,
		Sport:          sport,
	}

	if errs := validation.ValidateTeam(&team); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	crestURL, err := saveUpload(c, "crest", "crests", name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store crest", "details": err.Error()})
	}
	team.CrestURL = crestURL

	if err := s.DB.Create(&team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team", "details": err.Error()})
	}
	log.Printf("✅ Team %q created by user %s", team.Name, actor.ID)
	return c.Status(201).JSON(team)
}

// UpdateTeam edits a team's own fields. The sport reference is
// immutable once set; enrollments and matches depend on it.
func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching team", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &team) {
		// Same shape as a miss: don't confirm the team exists to strangers.
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	if sportID := c.FormValue("sport_id"); sportID != "" && sportID != team.SportID {
		return c.Status(400).JSON(fiber.Map{"error": "a team's sport cannot change"})
	}
	if name := c.FormValue("name"); name != "" {
		team.Name = name
	}
	if coach := c.FormValue("coach"); coach != "" {
		team.Coach = coach
	}
	if city := c.FormValue("city"); city != "" {
		team.City = city
	}

	if errs := validation.ValidateTeam(&team); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	crestURL, err := saveUpload(c, "crest", "crests", team.Name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store crest", "details": err.Error()})
	}
	if crestURL != "" {
		team.CrestURL = crestURL
	}

	if err := s.DB.Save(&team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team", "details": err.Error()})
	}
	return c.JSON(team)
}

// DeleteTeam removes a team and everything that only makes sense with
// it: enrollments and matches go, players stay behind without a team.
// One transaction, all or nothing.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	id := c.Params("id")

	var team models.Team
	if err := s.DB.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching team", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &team) {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		// Statistics hang off matches; clear them before the matches go.
		matchIDs := tx.Model(&models.Match{}).Select("id").
			Where("home_team_id = ? OR away_team_id = ?", id, id)
		if err := tx.Where("match_id IN (?)", matchIDs).Delete(&models.MatchStatistic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("home_team_id = ? OR away_team_id = ?", id, id).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		// Players survive the team: they just lose the reference.
		if err := tx.Model(&models.Player{}).Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete team", "details": err.Error()})
	}

	log.Printf("🗑️ Deleted team %s (%s) with its enrollments and matches", team.Name, team.ID)
	return c.JSON(fiber.Map{"message": "team deleted"})
}

package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

type matchRequest struct {
	TournamentID string     `json:"tournament_id"`
	HomeTeamID   string     `json:"home_team_id"`
	AwayTeamID   string     `json:"away_team_id"`
	KickoffAt    *time.Time `json:"kickoff_at"`
	Venue        string     `json:"venue"`
	Round        string     `json:"round"`
	Phase        string     `json:"phase"`
	Status       string     `json:"status"`
	HomeScore    *int       `json:"home_score"`
	AwayScore    *int       `json:"away_score"`
}

func validMatchStatus(s string) bool {
	switch s {
	case models.MatchPending, models.MatchPlayed, models.MatchSuspended:
		return true
	}
	return false
}

func validMatchPhase(p string) bool {
	switch p {
	case models.PhaseRegular, models.PhaseSemifinal, models.PhaseFinal:
		return true
	}
	return false
}

// eventSection is one sport's block in the events feed.
type eventSection struct {
	Sport   models.Sport   `json:"sport"`
	Matches []models.Match `json:"matches"`
}

// GetEvents is the public calendar: matches grouped by sport, each
// section ordered by kickoff. `?sport=<id>` narrows to one section.
// One wide query, grouped in memory.
func (s *MatchService) GetEvents(c *fiber.Ctx) error {
	var sports []models.Sport
	if err := s.DB.Order("name ASC").Find(&sports).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch sports", "details": err.Error()})
	}

	query := s.DB.Preload("Tournament").Preload("Tournament.Sport").
		Preload("HomeTeam").Preload("AwayTeam").
		Joins("JOIN tournaments ON tournaments.id = matches.tournament_id").
		Order("matches.kickoff_at ASC")

	sportID := c.Query("sport")
	if sportID != "" {
		query = query.Where("tournaments.sport_id = ?", sportID)
	}

	var matches []models.Match
	if err := query.Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches", "details": err.Error()})
	}

	bySport := make(map[string][]models.Match)
	for _, m := range matches {
		bySport[m.Tournament.SportID] = append(bySport[m.Tournament.SportID], m)
	}

	sections := make([]eventSection, 0)
	for _, sport := range sports {
		if sportID != "" && sport.ID != sportID {
			continue
		}
		if ms := bySport[sport.ID]; len(ms) > 0 {
			sections = append(sections, eventSection{Sport: sport, Matches: ms})
		}
	}

	return c.JSON(fiber.Map{
		"sections": sections,
		"selected": sportID,
	})
}

func (s *MatchService) GetMatchByID(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.Preload("Tournament").Preload("Tournament.Sport").
		Preload("HomeTeam").Preload("AwayTeam").
		First(&match, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}
	return c.JSON(match)
}

// resolveMatchRefs loads and attaches the tournament and both teams so
// the validator sees fully resolved references.
func (s *MatchService) resolveMatchRefs(match *models.Match) (int, error) {
	if err := s.DB.Preload("Sport").First(&match.Tournament, "id = ?", match.TournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 404, fmt.Errorf("tournament_id not found")
		}
		return 500, err
	}
	if err := s.DB.First(&match.HomeTeam, "id = ?", match.HomeTeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 404, fmt.Errorf("home_team_id not found")
		}
		return 500, err
	}
	if err := s.DB.First(&match.AwayTeam, "id = ?", match.AwayTeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 404, fmt.Errorf("away_team_id not found")
		}
		return 500, err
	}
	return 0, nil
}

// CreateMatch schedules a fixture, owned by the acting user.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TournamentID == "" || req.HomeTeamID == "" || req.AwayTeamID == "" || req.KickoffAt == nil {
		return c.Status(400).JSON(fiber.Map{"error": "tournament_id, home_team_id, away_team_id and kickoff_at are required"})
	}

	match := models.Match{
		ExternalUserID: actor.ID,
		TournamentID:   req.TournamentID,
		HomeTeamID:     req.HomeTeamID,
		AwayTeamID:     req.AwayTeamID,
		KickoffAt:      *req.KickoffAt,
		Venue:          req.Venue,
		Round:          req.Round,
		Phase:          models.PhaseRegular,
		Status:         models.MatchPending,
	}
	if req.Phase != "" {
		if !validMatchPhase(req.Phase) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown phase"})
		}
		match.Phase = req.Phase
	}
	if req.Status != "" {
		if !validMatchStatus(req.Status) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown status"})
		}
		match.Status = req.Status
	}
	if req.HomeScore != nil {
		if *req.HomeScore < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "home_score cannot be negative"})
		}
		match.HomeScore = *req.HomeScore
	}
	if req.AwayScore != nil {
		if *req.AwayScore < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "away_score cannot be negative"})
		}
		match.AwayScore = *req.AwayScore
	}

	if status, err := s.resolveMatchRefs(&match); err != nil {
		if status == 404 {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error resolving references", "details": err.Error()})
	}

	if errs := validation.ValidateMatch(&match); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	if err := s.DB.Omit("Tournament", "HomeTeam", "AwayTeam").Create(&match).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create match", "details": err.Error()})
	}
	log.Printf("✅ Match %s vs %s scheduled in %s", match.HomeTeam.Name, match.AwayTeam.Name, match.Tournament.Name)
	return c.Status(201).JSON(match)
}

// UpdateMatch edits a fixture. Team or tournament changes re-resolve
// every reference and re-run the full validation.
func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &match) {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TournamentID != "" {
		match.TournamentID = req.TournamentID
	}
	if req.HomeTeamID != "" {
		match.HomeTeamID = req.HomeTeamID
	}
	if req.AwayTeamID != "" {
		match.AwayTeamID = req.AwayTeamID
	}
	if req.KickoffAt != nil {
		match.KickoffAt = *req.KickoffAt
	}
	if req.Venue != "" {
		match.Venue = req.Venue
	}
	if req.Round != "" {
		match.Round = req.Round
	}
	if req.Phase != "" {
		if !validMatchPhase(req.Phase) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown phase"})
		}
		match.Phase = req.Phase
	}
	if req.Status != "" {
		if !validMatchStatus(req.Status) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown status"})
		}
		match.Status = req.Status
	}
	if req.HomeScore != nil {
		if *req.HomeScore < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "home_score cannot be negative"})
		}
		match.HomeScore = *req.HomeScore
	}
	if req.AwayScore != nil {
		if *req.AwayScore < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "away_score cannot be negative"})
		}
		match.AwayScore = *req.AwayScore
	}

	if status, err := s.resolveMatchRefs(&match); err != nil {
		if status == 404 {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error resolving references", "details": err.Error()})
	}

	if errs := validation.ValidateMatch(&match); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	if err := s.DB.Omit("Tournament", "HomeTeam", "AwayTeam").Save(&match).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match", "details": err.Error()})
	}
	return c.JSON(match)
}

// DeleteMatch removes the fixture and its statistics.
func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &match) {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", match.ID).Delete(&models.MatchStatistic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&match).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete match", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "match deleted"})
}

// AdjustScore bumps one side's score by one in either direction, never
// below zero. The scoreboard buttons on the live page hit this.
func (s *MatchService) AdjustScore(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)

	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}
	if !authz.CanWrite(actor, &match) {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	switch req.Action {
	case "home_add":
		match.HomeScore++
	case "home_sub":
		if match.HomeScore > 0 {
			match.HomeScore--
		}
	case "away_add":
		match.AwayScore++
	case "away_sub":
		if match.AwayScore > 0 {
			match.AwayScore--
		}
	default:
		return c.Status(400).JSON(fiber.Map{"error": "action must be one of home_add, home_sub, away_add, away_sub"})
	}

	if err := s.DB.Save(&match).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update score", "details": err.Error()})
	}
	return c.JSON(match)
}

// scoreEvent is the SSE payload for the live scoreboard.
type scoreEvent struct {
	MatchID   string    `json:"match_id"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StreamScoreSSE streams live score updates for one match. The client
// gets the current score immediately and then an event whenever the
// row changes, polled every 2 seconds.
func (s *MatchService) StreamScoreSSE(c *fiber.Ctx) error {
	matchID := c.Params("id")

	var match models.Match
	if err := s.DB.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "details": err.Error()})
	}

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		emit := func(m models.Match) bool {
			payload, _ := json.Marshal(scoreEvent{
				MatchID:   m.ID,
				HomeScore: m.HomeScore,
				AwayScore: m.AwayScore,
				Status:    m.Status,
				UpdatedAt: m.UpdatedAt,
			})
			fmt.Fprintf(w, "event: score\ndata: %s\n\n", payload)
			return w.Flush() == nil
		}

		lastSeen := match.UpdatedAt
		if !emit(match) {
			return
		}

		for {
			select {
			case <-ticker.C:
				var current models.Match
				if err := s.DB.First(&current, "id = ?", matchID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return // match deleted mid-stream
					}
					log.Printf("SSE query error for match %s: %v", matchID, err)
					continue
				}
				if !current.UpdatedAt.After(lastSeen) {
					// keepalive comment so proxies don't cut us off
					w.WriteString(":\n\n")
					if w.Flush() != nil {
						return
					}
					continue
				}
				lastSeen = current.UpdatedAt
				if !emit(current) {
					return
				}
			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}

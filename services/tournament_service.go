package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"league-management-system/aggregation"
	"league-management-system/authz"
	"league-management-system/models"
	"league-management-system/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

type tournamentRequest struct {
	Name      string     `json:"name"`
	Season    string     `json:"season"`
	SportID   string     `json:"sport_id"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func validTournamentStatus(s string) bool {
	switch s {
	case models.TournamentEnrollmentOpen, models.TournamentInProgress, models.TournamentFinished:
		return true
	}
	return false
}

// GetAllTournaments is public within the gateway, ordered by sport,
// then name.
func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	query := s.DB.Preload("Sport").
		Joins("JOIN sports ON sports.id = tournaments.sport_id").
		Order("sports.name, tournaments.name")
	if sportID := c.Query("sport"); sportID != "" {
		query = query.Where("tournaments.sport_id = ?", sportID)
	}
	if err := query.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments", "details": err.Error()})
	}
	return c.JSON(tournaments)
}

// GetTournamentByID returns the tournament together with its current
// standings: enrollments by points descending, names breaking ties.
func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := s.DB.Preload("Sport").First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "details": err.Error()})
	}

	var enrollments []models.Enrollment
	if err := s.DB.Preload("Team").
		Where("tournament_id = ?", tournament.ID).
		Find(&enrollments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching standings", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"tournament": tournament,
		"standings":  aggregation.SortStandings(enrollments),
	})
}

// GetStandings returns just the ranked enrollments of a tournament.
func (s *TournamentService) GetStandings(c *fiber.Ctx) error {
	id := c.Params("id")
	var count int64
	if err := s.DB.Model(&models.Tournament{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error", "details": err.Error()})
	}
	if count == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}

	var enrollments []models.Enrollment
	if err := s.DB.Preload("Team").
		Where("tournament_id = ?", id).
		Find(&enrollments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching standings", "details": err.Error()})
	}
	return c.JSON(aggregation.SortStandings(enrollments))
}

// CreateTournament — admin only; tournaments carry no owner.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name == "" || req.SportID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and sport_id are required"})
	}

	var sport models.Sport
	if err := s.DB.First(&sport, "id = ?", req.SportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "sport_id not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking sport", "details": err.Error()})
	}

	status := req.Status
	if status == "" {
		status = models.TournamentEnrollmentOpen
	}
	if !validTournamentStatus(status) {
		return c.Status(400).JSON(fiber.Map{"error": "unknown status"})
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	tournament := models.Tournament{
		Name:      req.Name,
		Season:    req.Season,
		SportID:   sport.ID,
		Status:    status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.DB.Create(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament", "details": err.Error()})
	}
	log.Printf("✅ Tournament %q (%s) created", tournament.Name, sport.Name)
	return c.Status(201).JSON(tournament)
}

// UpdateTournament — admin only. The sport is fixed at creation.
func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "details": err.Error()})
	}

	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.SportID != "" && req.SportID != tournament.SportID {
		return c.Status(400).JSON(fiber.Map{"error": "a tournament's sport cannot change"})
	}
	if req.Name != "" {
		tournament.Name = req.Name
	}
	if req.Season != "" {
		tournament.Season = req.Season
	}
	if req.Status != "" {
		if !validTournamentStatus(req.Status) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown status"})
		}
		tournament.Status = req.Status
	}
	if req.StartDate != nil {
		tournament.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		tournament.EndDate = req.EndDate
	}
	if tournament.StartDate != nil && tournament.EndDate != nil &&
		tournament.EndDate.Before(*tournament.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	if err := s.DB.Save(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament", "details": err.Error()})
	}
	return c.JSON(tournament)
}

// DeleteTournament — admin only; cascades to enrollments, matches and
// match statistics in one transaction.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	id := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "details": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		matchIDs := tx.Model(&models.Match{}).Select("id").Where("tournament_id = ?", id)
		if err := tx.Where("match_id IN (?)", matchIDs).Delete(&models.MatchStatistic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tournament).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete tournament", "details": err.Error()})
	}
	log.Printf("🗑️ Deleted tournament %s (%s)", tournament.Name, tournament.ID)
	return c.JSON(fiber.Map{"message": "tournament deleted"})
}

// GenerateFixtures creates a full round-robin schedule from the
// tournament's paid enrollments. Admin only; every generated match goes
// through the same validation as a hand-created one, and the whole
// schedule commits atomically.
func (s *TournamentService) GenerateFixtures(c *fiber.Ctx) error {
	actor := authz.ActorFromCtx(c)
	if !authz.CanWrite(actor, nil) {
		return c.Status(403).JSON(fiber.Map{"error": "administrator role required"})
	}

	var tournament models.Tournament
	if err := s.DB.Preload("Sport").First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "details": err.Error()})
	}
	if tournament.Status == models.TournamentFinished {
		return c.Status(400).JSON(fiber.Map{"error": "tournament is finished"})
	}

	var enrollments []models.Enrollment
	if err := s.DB.Preload("Team").Preload("Team.Sport").
		Where("tournament_id = ? AND paid = true", tournament.ID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching enrollments", "details": err.Error()})
	}
	if len(enrollments) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "need at least two paid enrollments to generate fixtures"})
	}

	teams := make([]models.Team, len(enrollments))
	for i, e := range enrollments {
		teams[i] = e.Team
	}

	firstKickoff := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	if tournament.StartDate != nil && tournament.StartDate.After(time.Now()) {
		firstKickoff = *tournament.StartDate
	}

	rounds := roundRobinRounds(len(teams))
	var created []models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for r, pairs := range rounds {
			kickoff := firstKickoff.Add(time.Duration(r) * 7 * 24 * time.Hour)
			for _, p := range pairs {
				home, away := teams[p.home], teams[p.away]
				match := models.Match{
					ExternalUserID: actor.ID,
					TournamentID:   tournament.ID,
					Tournament:     tournament,
					HomeTeamID:     home.ID,
					HomeTeam:       home,
					AwayTeamID:     away.ID,
					AwayTeam:       away,
					KickoffAt:      kickoff,
					Venue:          home.City,
					Round:          fmt.Sprintf("Matchday %d", r+1),
					Phase:          models.PhaseRegular,
					Status:         models.MatchPending,
				}
				if errs := validation.ValidateMatch(&match); len(errs) > 0 {
					return errs
				}
				// Associations are already persisted; only the match row is new.
				if err := tx.Omit("Tournament", "HomeTeam", "AwayTeam").Create(&match).Error; err != nil {
					return err
				}
				created = append(created, match)
			}
		}
		return nil
	})
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": verrs})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate fixtures", "details": err.Error()})
	}

	log.Printf("📅 Generated %d fixtures for tournament %s", len(created), tournament.Name)
	return c.Status(201).JSON(fiber.Map{
		"matches": created,
		"rounds":  len(rounds),
	})
}

// fixturePair holds indices into the team list, home first.
type fixturePair struct {
	home, away int
}

// roundRobinRounds builds a single round-robin via the circle method:
// n-1 rounds for even n, n rounds with a bye for odd n. Home advantage
// alternates with the rotation.
func roundRobinRounds(n int) [][]fixturePair {
	if n < 2 {
		return nil
	}
	teams := make([]int, n)
	for i := range teams {
		teams[i] = i
	}
	const bye = -1
	if n%2 == 1 {
		teams = append(teams, bye)
		n++
	}

	var rounds [][]fixturePair
	for r := 0; r < n-1; r++ {
		var pairs []fixturePair
		for i := 0; i < n/2; i++ {
			a, b := teams[i], teams[n-1-i]
			if a == bye || b == bye {
				continue
			}
			// Alternate who hosts so the fixed team isn't always home.
			if r%2 == 1 && i == 0 {
				a, b = b, a
			}
			pairs = append(pairs, fixturePair{home: a, away: b})
		}
		rounds = append(rounds, pairs)
		// Rotate everyone but the first seat.
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}
	return rounds
}

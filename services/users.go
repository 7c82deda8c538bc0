// services/users.go
package services

import (
	"strconv"
	"strings"

	"league-management-system/models"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers searches the local LeagueUser snapshot table. Used by the
// frontend to resolve owner IDs shown on teams and matches to names.
func (s *TournamentService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.LeagueUser
	db := s.DB.Model(&models.LeagueUser{}).Where("is_banned = ?", false).Limit(limit)

	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm,
		)
	}

	if err := db.Order("username").Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	// Minimal response shape: the ExternalUserID is the identifier the
	// rest of the API speaks (team owners, match creators).
	type UserSummary struct {
		ID                string  `json:"id"`
		ExternalUserID    string  `json:"external_user_id"`
		Username          string  `json:"username"`
		Email             string  `json:"email"`
		ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	}

	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ID:                u.ID,
			ExternalUserID:    u.ExternalUserID,
			Username:          u.Username,
			Email:             u.Email,
			ProfilePictureURL: u.ProfilePictureURL,
		}
	}

	return c.JSON(res)
}

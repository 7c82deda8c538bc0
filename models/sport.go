package models

import "time"

// Sport categories
const (
	SportCategoryTeam       = "team"
	SportCategoryIndividual = "individual"
)

// Scoring systems
const (
	ScoringGoals   = "goals"   // football, handball
	ScoringBaskets = "baskets" // basketball
	ScoringSets    = "sets"    // tennis, volleyball, padel
	ScoringPoints  = "points"  // generic
)

// Sport is a discipline the league organizes competitions for.
// Deleting a sport is blocked while any tournament references it.
type Sport struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name           string `json:"name" gorm:"uniqueIndex;not null"`
	Category       string `json:"category" gorm:"type:varchar(20);default:'team'"`
	ScoringSystem  string `json:"scoring_system" gorm:"type:varchar(20);default:'points'"`
	PlayersPerTeam int    `json:"players_per_team" gorm:"default:1"` // players on the field per team

	// Hard-deleted: a soft-deleted row would keep holding the unique
	// name, turning every re-creation of that sport into a 409.
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

package models

import "time"

// Match status
const (
	MatchPending   = "pending"
	MatchPlayed    = "played"
	MatchSuspended = "suspended"
)

// Match phase
const (
	PhaseRegular   = "regular"
	PhaseSemifinal = "semifinal"
	PhaseFinal     = "final"
)

// Match is a fixture between two enrolled teams of the same sport as
// its tournament. Home and away must differ.
type Match struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ExternalUserID string    `json:"external_user_id" gorm:"index;not null"` // creating user
	TournamentID   string    `json:"tournament_id" gorm:"index;not null"`
	HomeTeamID     string    `json:"home_team_id" gorm:"index;not null"`
	AwayTeamID     string    `json:"away_team_id" gorm:"index;not null"`
	KickoffAt      time.Time `json:"kickoff_at" gorm:"not null"`
	Venue          string    `json:"venue"`
	Round          string    `json:"round"` // e.g. "Matchday 1"
	Phase          string    `json:"phase" gorm:"type:varchar(20);default:'regular'"`
	Status         string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	HomeScore      int       `json:"home_score" gorm:"default:0;check:home_score >= 0"`
	AwayScore      int       `json:"away_score" gorm:"default:0;check:away_score >= 0"`

	Tournament Tournament       `json:"tournament,omitempty" gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE"`
	HomeTeam   Team             `json:"home_team,omitempty" gorm:"foreignKey:HomeTeamID;constraint:OnDelete:CASCADE"`
	AwayTeam   Team             `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID;constraint:OnDelete:CASCADE"`
	Statistics []MatchStatistic `json:"statistics,omitempty" gorm:"foreignKey:MatchID"`

	Timestamps
}

// OwnerID implements authz.Owned.
func (m *Match) OwnerID() (string, bool) {
	return m.ExternalUserID, m.ExternalUserID != ""
}

package models

import "time"

// Tournament lifecycle
const (
	TournamentEnrollmentOpen = "enrollment_open"
	TournamentInProgress     = "in_progress"
	TournamentFinished       = "finished"
)

// Tournament is a competition within a single sport. The sport is fixed
// at creation; the sport row itself cannot be deleted while referenced.
type Tournament struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name    string `json:"name" gorm:"not null"`
	Season  string `json:"season"` // e.g. "2024/2025"
	SportID string `json:"sport_id" gorm:"index;not null"`
	Status  string `json:"status" gorm:"type:varchar(20);default:'enrollment_open'"`

	// Optional schedule window; the status scheduler advances Status
	// automatically when these pass.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Sport       Sport        `json:"sport,omitempty" gorm:"foreignKey:SportID;constraint:OnDelete:RESTRICT"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:TournamentID"`
	Matches     []Match      `json:"matches,omitempty" gorm:"foreignKey:TournamentID"`

	Timestamps
}

// Enrollment registers one team into one tournament, at most once.
// Points accumulate toward the tournament standings.
type Enrollment struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TournamentID string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_enrollment_tournament_team"`
	TeamID       string    `json:"team_id" gorm:"not null;uniqueIndex:idx_enrollment_tournament_team"`
	EnrolledAt   time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
	Paid         bool      `json:"paid" gorm:"default:false"`
	Points       int       `json:"points" gorm:"default:0"` // standings points

	Tournament Tournament `json:"tournament,omitempty" gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE"`
	Team       Team       `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// OwnerID implements authz.Owned via the enrolled team's owner.
// Requires Team to be preloaded.
func (e *Enrollment) OwnerID() (string, bool) {
	if e.Team.ID == "" {
		return "", false
	}
	return e.Team.OwnerID()
}

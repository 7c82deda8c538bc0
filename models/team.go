package models

// Team belongs to exactly one user (its manager) and one sport.
// The sport reference never changes once set; enrollments and matches
// re-check it on every write.
type Team struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ExternalUserID string `json:"external_user_id" gorm:"index;not null"` // owning user from the auth service
	Name           string `json:"name" gorm:"not null"`
	Coach          string `json:"coach"`
	City           string `json:"city"`
	CrestURL       string `json:"crest_url,omitempty"`
	SportID        string `json:"sport_id" gorm:"index;not null"`

	Sport   Sport    `json:"sport,omitempty" gorm:"foreignKey:SportID"`
	Players []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`

	// Calculated fields (not stored in DB)
	PlayerCount int64 `json:"player_count,omitempty" gorm:"-"`

	Timestamps
}

// OwnerID implements authz.Owned.
func (t *Team) OwnerID() (string, bool) {
	return t.ExternalUserID, t.ExternalUserID != ""
}

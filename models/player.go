package models

// Player may exist without a team; deleting a team keeps its players
// around with TeamID set to NULL.
type Player struct {
	ID           string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         string `json:"name" gorm:"not null"`
	JerseyNumber *int   `json:"jersey_number,omitempty"` // 1-99, nil = unassigned
	PhotoURL     string `json:"photo_url,omitempty"`

	TeamID *string `json:"team_id,omitempty" gorm:"index"`
	Team   *Team   `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`

	Timestamps
}

// OwnerID implements authz.Owned: a player's effective owner is the
// owner of its team, one hop away. Requires Team to be preloaded.
func (p *Player) OwnerID() (string, bool) {
	if p.Team == nil {
		return "", false
	}
	return p.Team.OwnerID()
}

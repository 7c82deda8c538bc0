package models

import "time"

// MatchStatistic records one player's performance in one match. The
// player must belong to one of the two teams playing it.
type MatchStatistic struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MatchID  string `json:"match_id" gorm:"not null;uniqueIndex:idx_statistic_match_player"`
	PlayerID string `json:"player_id" gorm:"not null;uniqueIndex:idx_statistic_match_player"`

	Points  int    `json:"points" gorm:"default:0"`  // goals/points/baskets depending on the sport
	Minutes int    `json:"minutes" gorm:"default:0"` // minutes played
	Played  bool   `json:"played" gorm:"default:false"`
	Notes   string `json:"notes,omitempty" gorm:"type:text"` // incidents, MVP, etc.

	Match  Match  `json:"match,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`

	// Hard-deleted, unlike the soft-deleted aggregates: a removed line
	// must free the (match, player) slot immediately.
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

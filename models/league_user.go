package models

import (
	"time"

	"gorm.io/gorm"
)

// LeagueUser is a local snapshot of user data needed by the league service.
// Owned and managed solely by this service, populated by the sync worker
// from the auth service's user table. The acting identity on requests is
// still the opaque ExternalUserID forwarded by the gateway.
type LeagueUser struct {
	ID                string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID    string     `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username          string     `gorm:"index;not null" json:"username"`
	Email             string     `json:"email,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	FirstName         *string    `json:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
	IsBanned          bool       `json:"is_banned" gorm:"default:false"` // local league ban

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

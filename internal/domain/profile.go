package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile maps an opaque device token to the ranked strengths chosen at onboarding.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID  string    `gorm:"column:device_id;not null;uniqueIndex" json:"device_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserStrength is one ranked theme in a profile. Ranks per profile are a
// permutation of 1..5 and a theme appears at most once.
type UserStrength struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_user_strength_rank;uniqueIndex:uidx_user_strength_theme" json:"profile_id"`
	ThemeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_user_strength_theme" json:"theme_id"`
	Rank      int       `gorm:"column:rank;not null;uniqueIndex:uidx_user_strength_rank" json:"rank"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Theme *Theme `gorm:"foreignKey:ThemeID;references:ID" json:"theme,omitempty"`
}

func (UserStrength) TableName() string { return "user_strengths" }

func (s *UserStrength) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

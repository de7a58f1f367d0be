package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyPrompt is the prompt chosen for one (device, date, aspect). ForDate is
// an ISO calendar date (YYYY-MM-DD) kept as text so it means the same thing
// on every driver and in every timezone.
type DailyPrompt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID  string    `gorm:"column:device_id;not null;uniqueIndex:uidx_daily_prompt_device_date_aspect;index:idx_daily_prompt_device_date" json:"device_id"`
	ForDate   string    `gorm:"column:for_date;type:varchar(10);not null;uniqueIndex:uidx_daily_prompt_device_date_aspect;index:idx_daily_prompt_device_date" json:"for_date"`
	Aspect    Aspect    `gorm:"column:aspect;type:varchar(16);not null;uniqueIndex:uidx_daily_prompt_device_date_aspect" json:"aspect"`
	ThemeID   uuid.UUID `gorm:"type:uuid;not null" json:"theme_id"`
	PromptID  uuid.UUID `gorm:"type:uuid;not null;index" json:"prompt_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Prompt *Prompt `gorm:"foreignKey:PromptID;references:ID" json:"prompt,omitempty"`
	Theme  *Theme  `gorm:"foreignKey:ThemeID;references:ID" json:"theme,omitempty"`
}

func (DailyPrompt) TableName() string { return "daily_prompts" }

func (d *DailyPrompt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

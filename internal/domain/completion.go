package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Completion records that a prompt was done on a date. A row existing is the
// whole truth; there is no completed flag and rows are never updated.
type Completion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID  string    `gorm:"column:device_id;not null;uniqueIndex:uidx_completion_device_prompt_date;index:idx_completion_device_date" json:"device_id"`
	PromptID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_completion_device_prompt_date" json:"prompt_id"`
	Aspect    Aspect    `gorm:"column:aspect;type:varchar(16);not null" json:"aspect"`
	ForDate   string    `gorm:"column:for_date;type:varchar(10);not null;uniqueIndex:uidx_completion_device_prompt_date;index:idx_completion_device_date" json:"for_date"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Completion) TableName() string { return "completions" }

func (c *Completion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MinPromptTextLen is the shortest prompt text accepted on import.
const MinPromptTextLen = 10

// MaxPromptTextBytes keeps prompt_text inside the Postgres btree entry limit
// of the unique index.
const MaxPromptTextBytes = 2000

// Prompt is a piece of reflective text tied to one theme and one aspect.
// (theme_id, aspect, prompt_text) is unique; duplicate imports are absorbed.
type Prompt struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ThemeID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uidx_prompt_theme_aspect_text" json:"theme_id"`
	Aspect     Aspect         `gorm:"column:aspect;type:varchar(16);not null;index;uniqueIndex:uidx_prompt_theme_aspect_text" json:"aspect"`
	PromptText string         `gorm:"column:prompt_text;type:text;not null;uniqueIndex:uidx_prompt_theme_aspect_text" json:"prompt_text"`
	Tags       datatypes.JSON `gorm:"column:tags" json:"tags,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`

	Theme *Theme `gorm:"foreignKey:ThemeID;references:ID" json:"theme,omitempty"`
}

func (Prompt) TableName() string { return "prompts" }

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

package domain

import "github.com/google/uuid"

// Reasons a DayView is a fallback rather than a real selection.
const (
	FallbackReasonPrecondition     = "precondition_failed"
	FallbackReasonStoreUnavailable = "store_unavailable"
)

// DayPrompt is one hydrated entry of a day's prompt set.
type DayPrompt struct {
	ID         uuid.UUID `json:"id"`
	Aspect     Aspect    `json:"aspect"`
	ThemeID    uuid.UUID `json:"theme_id"`
	ThemeName  string    `json:"theme_name"`
	PromptID   uuid.UUID `json:"prompt_id"`
	PromptText string    `json:"prompt_text"`
	Completed  bool      `json:"completed"`
}

// DayView is what a device sees for a date. Fallback views carry the reason
// and are never persisted as selections.
type DayView struct {
	Date     string      `json:"date"`
	Prompts  []DayPrompt `json:"prompts"`
	Fallback bool        `json:"fallback"`
	Reason   string      `json:"reason,omitempty"`
	Cached   bool        `json:"cached,omitempty"`
}

package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Theme{},
		&types.Profile{},
		&types.UserStrength{},
		&types.Prompt{},
		&types.DailyPrompt{},
		&types.Completion{},
	); err != nil {
		return err
	}
	return EnsureSelectionIndexes(db)
}

// EnsureSelectionIndexes adds the indexes the selection queries lean on that
// the struct tags cannot express. Statements are valid on Postgres and SQLite.
func EnsureSelectionIndexes(db *gorm.DB) error {
	// Candidate lookup: aspect first, then the five themes.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prompt_aspect_theme
		ON prompts (aspect, theme_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_prompt_aspect_theme: %w", err)
	}
	// Streaks and stats scan completions per device over a date range.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_completion_device_for_date_aspect
		ON completions (device_id, for_date, aspect);
	`).Error; err != nil {
		return fmt.Errorf("create idx_completion_device_for_date_aspect: %w", err)
	}
	return nil
}

package repos

import (
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos/content"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos/daily"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos/user"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type ThemeRepo = content.ThemeRepo
type PromptRepo = content.PromptRepo
type PromptFilter = content.PromptFilter
type ThemeAspectCount = content.ThemeAspectCount

const DefaultPromptBatchSize = content.DefaultBatchSize

type ProfileRepo = user.ProfileRepo
type UserStrengthRepo = user.UserStrengthRepo

type DailyPromptRepo = daily.DailyPromptRepo
type CompletionRepo = daily.CompletionRepo
type AspectCount = daily.AspectCount
type ThemeCount = daily.ThemeCount

// Set groups every repo behind one handle for wiring.
type Set struct {
	Theme        ThemeRepo
	Prompt       PromptRepo
	Profile      ProfileRepo
	UserStrength UserStrengthRepo
	DailyPrompt  DailyPromptRepo
	Completion   CompletionRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Theme:        content.NewThemeRepo(db, baseLog),
		Prompt:       content.NewPromptRepo(db, baseLog),
		Profile:      user.NewProfileRepo(db, baseLog),
		UserStrength: user.NewUserStrengthRepo(db, baseLog),
		DailyPrompt:  daily.NewDailyPromptRepo(db, baseLog),
		Completion:   daily.NewCompletionRepo(db, baseLog),
	}
}

package selection

import (
	"context"

	"github.com/google/uuid"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

// Strength is one ranked theme of a device's profile.
type Strength struct {
	ThemeID uuid.UUID
	Rank    int
}

// Candidate is a prompt that may be chosen for an aspect.
type Candidate struct {
	ID         uuid.UUID
	ThemeID    uuid.UUID
	Aspect     types.Aspect
	PromptText string
}

// Assignment is one DailySelection row.
type Assignment struct {
	DeviceID string       `json:"device_id"`
	ForDate  string       `json:"for_date"`
	Aspect   types.Aspect `json:"aspect"`
	ThemeID  uuid.UUID    `json:"theme_id"`
	PromptID uuid.UUID    `json:"prompt_id"`
}

// PromptQuery selects prompts for one aspect among a set of themes.
// Limit <= 0 means no limit.
type PromptQuery struct {
	Aspect     types.Aspect
	ThemeIDs   []uuid.UUID
	ExcludeIDs []uuid.UUID
	Limit      int
}

// StrengthStore returns a device's strengths ordered by rank, or ErrNoProfile.
type StrengthStore interface {
	GetStrengths(ctx context.Context, deviceID string) ([]Strength, error)
}

type PromptCatalog interface {
	FindPrompts(ctx context.Context, q PromptQuery) ([]Candidate, error)
}

// SelectionStore persists DailySelections keyed by (device, date, aspect).
type SelectionStore interface {
	// UpsertIgnoringDuplicates inserts rows whose key is absent and silently
	// drops the rest.
	UpsertIgnoringDuplicates(ctx context.Context, rows []Assignment) error
	ListForUserAndDate(ctx context.Context, deviceID, date string) ([]Assignment, error)
	// ListRecentPromptIDs returns prompt ids selected on dates in [since, before).
	ListRecentPromptIDs(ctx context.Context, deviceID, since, before string) ([]uuid.UUID, error)
}

// Observer receives engine outcomes. Implementations must be cheap and safe
// for concurrent use.
type Observer interface {
	SelectionOutcome(outcome string)
	AspectSkipped(aspect types.Aspect)
	ExclusionRelaxed(aspect types.Aspect)
}

const (
	OutcomeGenerated = "generated"
	OutcomeReused    = "reused"
	OutcomeFailed    = "failed"
)

type nopObserver struct{}

func (nopObserver) SelectionOutcome(string)       {}
func (nopObserver) AspectSkipped(types.Aspect)    {}
func (nopObserver) ExclusionRelaxed(types.Aspect) {}

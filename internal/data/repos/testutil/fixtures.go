package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

func SeedTheme(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Theme {
	tb.Helper()
	th := &types.Theme{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
	}
	if err := tx.WithContext(ctx).Create(th).Error; err != nil {
		tb.Fatalf("seed theme: %v", err)
	}
	return th
}

// SeedThemes creates n themes named prefix-1..prefix-n.
func SeedThemes(tb testing.TB, ctx context.Context, tx *gorm.DB, prefix string, n int) []*types.Theme {
	tb.Helper()
	out := make([]*types.Theme, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, SeedTheme(tb, ctx, tx, prefix+"-"+string(rune('0'+i))))
	}
	return out
}

func SeedPrompt(tb testing.TB, ctx context.Context, tx *gorm.DB, themeID uuid.UUID, aspect types.Aspect, text string) *types.Prompt {
	tb.Helper()
	p := &types.Prompt{
		ID:         uuid.New(),
		ThemeID:    themeID,
		Aspect:     aspect,
		PromptText: text,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prompt: %v", err)
	}
	return p
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, deviceID string, themes []*types.Theme) *types.Profile {
	tb.Helper()
	p := &types.Profile{ID: uuid.New(), DeviceID: deviceID}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	for i, th := range themes {
		s := &types.UserStrength{ID: uuid.New(), ProfileID: p.ID, ThemeID: th.ID, Rank: i + 1}
		if err := tx.WithContext(ctx).Create(s).Error; err != nil {
			tb.Fatalf("seed strength: %v", err)
		}
	}
	return p
}

func SeedDailyPrompt(tb testing.TB, ctx context.Context, tx *gorm.DB, deviceID, forDate string, p *types.Prompt) *types.DailyPrompt {
	tb.Helper()
	d := &types.DailyPrompt{
		ID:       uuid.New(),
		DeviceID: deviceID,
		ForDate:  forDate,
		Aspect:   p.Aspect,
		ThemeID:  p.ThemeID,
		PromptID: p.ID,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed daily prompt: %v", err)
	}
	return d
}

func SeedCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, deviceID, forDate string, p *types.Prompt) *types.Completion {
	tb.Helper()
	c := &types.Completion{
		ID:       uuid.New(),
		DeviceID: deviceID,
		PromptID: p.ID,
		Aspect:   p.Aspect,
		ForDate:  forDate,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
	return c
}

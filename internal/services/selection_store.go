package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

// SelectionStore adapts the repos to the engine's three collaborator ports.
// Connectivity failures are marked with selection.ErrStoreUnavailable.
type SelectionStore struct {
	profiles  repos.ProfileRepo
	strengths repos.UserStrengthRepo
	prompts   repos.PromptRepo
	daily     repos.DailyPromptRepo
}

var (
	_ selection.StrengthStore  = (*SelectionStore)(nil)
	_ selection.PromptCatalog  = (*SelectionStore)(nil)
	_ selection.SelectionStore = (*SelectionStore)(nil)
)

func NewSelectionStore(set repos.Set) *SelectionStore {
	return &SelectionStore{
		profiles:  set.Profile,
		strengths: set.UserStrength,
		prompts:   set.Prompt,
		daily:     set.DailyPrompt,
	}
}

func (s *SelectionStore) GetStrengths(ctx context.Context, deviceID string) ([]selection.Strength, error) {
	dbc := dbctx.From(ctx)
	rows, err := s.strengths.ListByDeviceID(dbc, deviceID)
	if err != nil {
		return nil, markUnavailable(err)
	}
	if len(rows) == 0 {
		profile, err := s.profiles.GetByDeviceID(dbc, deviceID)
		if err != nil {
			return nil, markUnavailable(err)
		}
		if profile == nil {
			return nil, selection.ErrNoProfile
		}
	}
	out := make([]selection.Strength, 0, len(rows))
	for _, r := range rows {
		out = append(out, selection.Strength{ThemeID: r.ThemeID, Rank: r.Rank})
	}
	return out, nil
}

func (s *SelectionStore) FindPrompts(ctx context.Context, q selection.PromptQuery) ([]selection.Candidate, error) {
	rows, err := s.prompts.Find(dbctx.From(ctx), repos.PromptFilter{
		Aspect:     q.Aspect,
		ThemeIDs:   q.ThemeIDs,
		ExcludeIDs: q.ExcludeIDs,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, markUnavailable(err)
	}
	out := make([]selection.Candidate, 0, len(rows))
	for _, p := range rows {
		out = append(out, selection.Candidate{ID: p.ID, ThemeID: p.ThemeID, Aspect: p.Aspect, PromptText: p.PromptText})
	}
	return out, nil
}

func (s *SelectionStore) UpsertIgnoringDuplicates(ctx context.Context, rows []selection.Assignment) error {
	records := make([]*types.DailyPrompt, 0, len(rows))
	for _, a := range rows {
		records = append(records, &types.DailyPrompt{
			ID:       uuid.New(),
			DeviceID: a.DeviceID,
			ForDate:  a.ForDate,
			Aspect:   a.Aspect,
			ThemeID:  a.ThemeID,
			PromptID: a.PromptID,
		})
	}
	_, err := s.daily.CreateIgnoringDuplicates(dbctx.From(ctx), records)
	return markUnavailable(err)
}

func (s *SelectionStore) ListForUserAndDate(ctx context.Context, deviceID, date string) ([]selection.Assignment, error) {
	rows, err := s.daily.ListByDeviceAndDate(dbctx.From(ctx), deviceID, date)
	if err != nil {
		return nil, markUnavailable(err)
	}
	out := make([]selection.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, selection.Assignment{
			DeviceID: r.DeviceID,
			ForDate:  r.ForDate,
			Aspect:   r.Aspect,
			ThemeID:  r.ThemeID,
			PromptID: r.PromptID,
		})
	}
	return out, nil
}

func (s *SelectionStore) ListRecentPromptIDs(ctx context.Context, deviceID, since, before string) ([]uuid.UUID, error) {
	ids, err := s.daily.ListPromptIDsBetween(dbctx.From(ctx), deviceID, since, before)
	return ids, markUnavailable(err)
}

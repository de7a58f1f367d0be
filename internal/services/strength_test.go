package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

func TestStrengthServiceReplaceStoresRanksAndRegenerates(t *testing.T) {
	h := newHarness(t)
	device, ids := h.onboard(t)

	got, err := h.strengths.Get(h.ctx, device)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("Get: want 5 strengths, got %d", len(got))
	}
	for i, s := range got {
		if s.Rank != i+1 || s.ThemeID != ids[i] {
			t.Fatalf("strength %d: rank=%d theme=%s, want rank=%d theme=%s", i, s.Rank, s.ThemeID, i+1, ids[i])
		}
	}

	rows, err := h.set.DailyPrompt.ListByDeviceAndDate(dbctx.From(h.ctx), device, testToday)
	if err != nil {
		t.Fatalf("ListByDeviceAndDate: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("selections after Replace: want 5, got %d", len(rows))
	}
}

func TestStrengthServiceReplaceClearsTodaysSelections(t *testing.T) {
	h := newHarness(t)
	device, ids := h.onboard(t)
	before, err := h.set.DailyPrompt.ListByDeviceAndDate(dbctx.From(h.ctx), device, testToday)
	if err != nil || len(before) != 5 {
		t.Fatalf("initial selections: err=%v len=%d", err, len(before))
	}

	reversed := []uuid.UUID{ids[4], ids[3], ids[2], ids[1], ids[0]}
	if _, err := h.strengths.Replace(h.ctx, device, reversed, testToday); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	after, err := h.set.DailyPrompt.ListByDeviceAndDate(dbctx.From(h.ctx), device, testToday)
	if err != nil || len(after) != 5 {
		t.Fatalf("selections after second Replace: err=%v len=%d", err, len(after))
	}
	old := map[uuid.UUID]bool{}
	for _, r := range before {
		old[r.ID] = true
	}
	for _, r := range after {
		if old[r.ID] {
			t.Fatalf("selection row %s survived a strength change", r.ID)
		}
	}
	if len(h.cache.invalidated) == 0 {
		t.Fatalf("Replace did not invalidate the day cache")
	}
}

func TestStrengthServiceReplaceValidation(t *testing.T) {
	h := newHarness(t)
	ids := h.userThemes(t)

	cases := []struct {
		name     string
		device   string
		themeIDs []uuid.UUID
		code     string
	}{
		{"four themes", "dev-a", ids[:4], "invalid_strengths"},
		{"duplicate theme", "dev-a", []uuid.UUID{ids[0], ids[0], ids[1], ids[2], ids[3]}, "invalid_strengths"},
		{"nil theme", "dev-a", []uuid.UUID{uuid.Nil, ids[1], ids[2], ids[3], ids[4]}, "invalid_strengths"},
		{"unknown theme", "dev-a", []uuid.UUID{uuid.New(), ids[1], ids[2], ids[3], ids[4]}, "unknown_theme"},
		{"bad device", "bad device!", ids, "invalid_device_id"},
	}
	for _, tc := range cases {
		_, err := h.strengths.Replace(h.ctx, tc.device, tc.themeIDs, testToday)
		ae, ok := apierr.As(err)
		if !ok {
			t.Fatalf("%s: want api error, got %v", tc.name, err)
		}
		if ae.Code != tc.code || ae.Status != 400 {
			t.Fatalf("%s: got %d %s, want 400 %s", tc.name, ae.Status, ae.Code, tc.code)
		}
	}
}

func TestStrengthServiceReset(t *testing.T) {
	h := newHarness(t)
	device, _ := h.onboard(t)
	view, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if _, err := h.completions.Toggle(h.ctx, device, view.Prompts[0].PromptID, string(view.Prompts[0].Aspect), testToday); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if err := h.strengths.Reset(h.ctx, device); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	dbc := dbctx.From(h.ctx)
	if got, _ := h.strengths.Get(h.ctx, device); len(got) != 0 {
		t.Fatalf("strengths after reset: %d", len(got))
	}
	if rows, _ := h.set.DailyPrompt.ListByDeviceAndDate(dbc, device, testToday); len(rows) != 0 {
		t.Fatalf("selections after reset: %d", len(rows))
	}
	if rows, _ := h.set.Completion.ListByDeviceAndDate(dbc, device, testToday); len(rows) != 0 {
		t.Fatalf("completions after reset: %d", len(rows))
	}
	if h.cache.has(device, testToday) {
		t.Fatalf("day cache still holds a view after reset")
	}

	if err := h.strengths.Reset(h.ctx, "never-seen-device"); err != nil {
		t.Fatalf("Reset of unknown device: %v", err)
	}
}

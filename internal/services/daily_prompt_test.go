package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/catalog"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

func TestDailyPromptServiceTodayServesSelection(t *testing.T) {
	h := newHarness(t)
	device, ids := h.onboard(t)
	mine := map[uuid.UUID]bool{}
	for _, id := range ids {
		mine[id] = true
	}

	view, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if view.Fallback || view.Reason != "" || view.Cached {
		t.Fatalf("unexpected degraded view: %+v", view)
	}
	if len(view.Prompts) != 5 {
		t.Fatalf("want 5 prompts, got %d", len(view.Prompts))
	}
	for i, p := range view.Prompts {
		if p.Aspect != types.Aspects[i] {
			t.Fatalf("prompt %d: aspect %s, want %s", i, p.Aspect, types.Aspects[i])
		}
		if !mine[p.ThemeID] {
			t.Fatalf("prompt %d: theme %s is not one of the device's strengths", i, p.ThemeID)
		}
		if p.PromptText == "" || p.ThemeName == "" {
			t.Fatalf("prompt %d not hydrated: %+v", i, p)
		}
	}
	if !h.cache.has(device, testToday) {
		t.Fatalf("view was not cached")
	}

	again, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Today again: %v", err)
	}
	for i := range view.Prompts {
		if again.Prompts[i].PromptID != view.Prompts[i].PromptID {
			t.Fatalf("selection changed between calls at %d", i)
		}
	}
}

func TestDailyPromptServiceTodayFallsBackWithoutStrengths(t *testing.T) {
	h := newHarness(t)
	view, err := h.daily.Today(h.ctx, "no-profile-device", testToday)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if !view.Fallback || view.Reason != types.FallbackReasonPrecondition {
		t.Fatalf("want precondition fallback, got fallback=%v reason=%q", view.Fallback, view.Reason)
	}
	defaults, err := catalog.Fallback()
	if err != nil {
		t.Fatalf("catalog.Fallback: %v", err)
	}
	if len(view.Prompts) != len(defaults) {
		t.Fatalf("fallback prompts: want %d, got %d", len(defaults), len(view.Prompts))
	}
	for i, p := range view.Prompts {
		if p.PromptID != defaults[i].Prompt.ID {
			t.Fatalf("fallback prompt %d: got %s want %s", i, p.PromptID, defaults[i].Prompt.ID)
		}
	}
	rows, err := h.set.DailyPrompt.ListByDeviceAndDate(dbctx.From(h.ctx), "no-profile-device", testToday)
	if err != nil || len(rows) != 0 {
		t.Fatalf("fallback must not persist selections: err=%v len=%d", err, len(rows))
	}
	if h.cache.has("no-profile-device", testToday) {
		t.Fatalf("fallback view was cached")
	}
}

func TestDailyPromptServiceTodayServesCacheWhenStoreDown(t *testing.T) {
	h := newHarness(t)
	if h.db.Dialector.Name() != "sqlite" {
		t.Skip("store outage is simulated by closing the sqlite handle")
	}
	device, _ := h.onboard(t)
	first, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	_ = sqlDB.Close()

	cached, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Today with store down: %v", err)
	}
	if !cached.Cached || cached.Fallback || cached.Reason != types.FallbackReasonStoreUnavailable {
		t.Fatalf("want cached view, got cached=%v fallback=%v reason=%q", cached.Cached, cached.Fallback, cached.Reason)
	}
	if len(cached.Prompts) != len(first.Prompts) || cached.Prompts[0].PromptID != first.Prompts[0].PromptID {
		t.Fatalf("cached view differs from the last served view")
	}

	other, err := h.daily.Today(h.ctx, device, "2024-03-16")
	if err != nil {
		t.Fatalf("Today uncached date with store down: %v", err)
	}
	if !other.Fallback || other.Reason != types.FallbackReasonStoreUnavailable {
		t.Fatalf("want store_unavailable fallback, got fallback=%v reason=%q", other.Fallback, other.Reason)
	}
}

func TestDailyPromptServiceTodayQueryErrorIsNotAnOutage(t *testing.T) {
	h := newHarness(t)
	if h.db.Dialector.Name() != "sqlite" {
		t.Skip("drops a table on a private sqlite database")
	}
	device, _ := h.onboard(t)
	if _, err := h.daily.Today(h.ctx, device, testToday); err != nil {
		t.Fatalf("Today: %v", err)
	}
	if err := h.db.Migrator().DropTable(&types.Completion{}); err != nil {
		t.Fatalf("drop completions: %v", err)
	}

	view, err := h.daily.Today(h.ctx, device, testToday)
	if view != nil {
		t.Fatalf("want no view, got cached=%v fallback=%v reason=%q", view.Cached, view.Fallback, view.Reason)
	}
	ae, ok := apierr.As(err)
	if !ok || ae.Status != http.StatusInternalServerError || ae.Code != "daily_prompts_failed" {
		t.Fatalf("want 500 daily_prompts_failed, got %v", err)
	}
}

func TestDailyPromptServiceClear(t *testing.T) {
	h := newHarness(t)
	device, _ := h.onboard(t)
	if _, err := h.daily.Today(h.ctx, device, testToday); err != nil {
		t.Fatalf("Today: %v", err)
	}
	n, err := h.daily.Clear(h.ctx, device, testToday)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 5 {
		t.Fatalf("Clear: deleted %d rows, want 5", n)
	}
	if h.cache.has(device, testToday) {
		t.Fatalf("Clear left the cached view")
	}
	view, err := h.daily.Today(h.ctx, device, testToday)
	if err != nil || len(view.Prompts) != 5 || view.Fallback {
		t.Fatalf("Today after Clear: err=%v view=%+v", err, view)
	}
}

func TestDailyPromptServiceRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.daily.Today(h.ctx, "", testToday)
	if ae, ok := apierr.As(err); !ok || ae.Code != "invalid_device_id" {
		t.Fatalf("empty device: got %v", err)
	}
	_, err = h.daily.Today(h.ctx, "device-1", "2024-3-5")
	if ae, ok := apierr.As(err); !ok || ae.Code != "invalid_date" {
		t.Fatalf("bad date: got %v", err)
	}
	view, err := h.daily.Today(h.ctx, "device-1", "")
	if err != nil {
		t.Fatalf("empty date: %v", err)
	}
	if view.Date != testToday {
		t.Fatalf("empty date should mean today, got %s", view.Date)
	}
}

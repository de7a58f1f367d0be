package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/catalog"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos/testutil"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

const testToday = "2024-03-15"

func pinnedClock() Clock {
	return func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
}

type harness struct {
	ctx     context.Context
	db      *gorm.DB
	set     repos.Set
	cache   *memCache
	metrics *observability.Metrics
	engine  *selection.Engine

	themes      ThemeService
	strengths   StrengthService
	daily       DailyPromptService
	completions CompletionService
	stats       StatsService
	imports     ImportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	metrics := observability.NewMetrics()
	cache := newMemCache()
	store := NewSelectionStore(set)
	engine := selection.NewEngine(log, store, store, store, selection.Config{}, selection.WithObserver(metrics))

	themes, err := NewThemeService(db, log, set.Theme, set.Prompt, 0)
	if err != nil {
		t.Fatalf("NewThemeService: %v", err)
	}
	if _, err := themes.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	clock := pinnedClock()
	return &harness{
		ctx:         ctx,
		db:          db,
		set:         set,
		cache:       cache,
		metrics:     metrics,
		engine:      engine,
		themes:      themes,
		strengths:   NewStrengthService(db, log, set, themes, engine, cache, clock),
		daily:       NewDailyPromptService(log, engine, set, cache, metrics, clock),
		completions: NewCompletionService(db, log, set, cache, metrics, clock),
		stats:       NewStatsService(log, set, 0, clock),
		imports:     NewImportService(db, log, set, metrics),
	}
}

// userThemes returns the first five catalog themes and gives each a prompt per aspect.
func (h *harness) userThemes(t *testing.T) []uuid.UUID {
	t.Helper()
	all, err := catalog.Themes()
	if err != nil {
		t.Fatalf("catalog.Themes: %v", err)
	}
	ids := make([]uuid.UUID, 0, types.StrengthCount)
	for _, th := range all[:types.StrengthCount] {
		ids = append(ids, th.ID)
		for _, a := range types.Aspects {
			text := fmt.Sprintf("%s reflection for %s today", th.Name, a)
			if _, err := h.set.Prompt.CreateIgnoringDuplicates(dbctx.From(h.ctx), []*types.Prompt{{ThemeID: th.ID, Aspect: a, PromptText: text}}, 0); err != nil {
				t.Fatalf("seed prompt: %v", err)
			}
		}
	}
	return ids
}

// onboard stores five strengths for a fresh device and returns the device id.
func (h *harness) onboard(t *testing.T) (string, []uuid.UUID) {
	t.Helper()
	ids := h.userThemes(t)
	device := "device-" + uuid.NewString()
	if _, err := h.strengths.Replace(h.ctx, device, ids, testToday); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	return device, ids
}

type memCache struct {
	mu          sync.Mutex
	views       map[string]types.DayView
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{views: map[string]types.DayView{}}
}

func (c *memCache) Get(_ context.Context, deviceID, date string) (*types.DayView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[deviceID+"|"+date]
	if !ok {
		return nil, nil
	}
	v.Prompts = append([]types.DayPrompt(nil), v.Prompts...)
	return &v, nil
}

func (c *memCache) Set(_ context.Context, deviceID, date string, view *types.DayView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[deviceID+"|"+date] = *view
	return nil
}

func (c *memCache) Invalidate(_ context.Context, deviceID, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, deviceID+"|"+date)
	c.invalidated = append(c.invalidated, deviceID+"|"+date)
	return nil
}

func (c *memCache) Close() error { return nil }

func (c *memCache) has(deviceID, date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.views[deviceID+"|"+date]
	return ok
}

package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/catalog"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

const DefaultThemeCacheSize = 64

type SeedReport struct {
	ThemesInserted  int64 `json:"themes_inserted"`
	PromptsInserted int64 `json:"prompts_inserted"`
}

type ThemeService interface {
	// Seed writes the built-in themes and fallback prompts, skipping rows already present.
	Seed(ctx context.Context) (SeedReport, error)
	List(ctx context.Context) ([]*types.Theme, error)
	// Resolve returns the known themes among ids, keyed by id.
	Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*types.Theme, error)
}

type themeService struct {
	db      *gorm.DB
	log     *logger.Logger
	themes  repos.ThemeRepo
	prompts repos.PromptRepo

	byID *lru.Cache[uuid.UUID, *types.Theme]
	mu   sync.RWMutex
	all  []*types.Theme
}

func NewThemeService(db *gorm.DB, log *logger.Logger, themes repos.ThemeRepo, prompts repos.PromptRepo, cacheSize int) (ThemeService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultThemeCacheSize
	}
	byID, err := lru.New[uuid.UUID, *types.Theme](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("theme cache: %w", err)
	}
	return &themeService{
		db:      db,
		log:     log.With("service", "ThemeService"),
		themes:  themes,
		prompts: prompts,
		byID:    byID,
	}, nil
}

func (s *themeService) Seed(ctx context.Context) (SeedReport, error) {
	var report SeedReport
	builtin, err := catalog.Themes()
	if err != nil {
		return report, err
	}
	fallback, err := catalog.Fallback()
	if err != nil {
		return report, err
	}
	themeRows := make([]*types.Theme, 0, len(builtin))
	for i := range builtin {
		themeRows = append(themeRows, &builtin[i])
	}
	promptRows := make([]*types.Prompt, 0, len(fallback))
	for i := range fallback {
		p := fallback[i].Prompt
		promptRows = append(promptRows, &p)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.themes.UpsertAll(dbc, themeRows)
		if err != nil {
			return fmt.Errorf("seed themes: %w", err)
		}
		report.ThemesInserted = n
		n, err = s.prompts.CreateIgnoringDuplicates(dbc, promptRows, 0)
		if err != nil {
			return fmt.Errorf("seed fallback prompts: %w", err)
		}
		report.PromptsInserted = n
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}
	s.purge()
	s.log.Info("catalog seeded", "themes_inserted", report.ThemesInserted, "prompts_inserted", report.PromptsInserted)
	return report, nil
}

func (s *themeService) List(ctx context.Context) ([]*types.Theme, error) {
	s.mu.RLock()
	cached := s.all
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	rows, err := s.themes.List(dbctx.From(ctx))
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "themes_unavailable", err)
	}
	s.mu.Lock()
	s.all = rows
	s.mu.Unlock()
	for _, th := range rows {
		s.byID.Add(th.ID, th)
	}
	return rows, nil
}

func (s *themeService) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*types.Theme, error) {
	out := make(map[uuid.UUID]*types.Theme, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if th, ok := s.byID.Get(id); ok {
			out[id] = th
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	rows, err := s.themes.GetByIDs(dbctx.From(ctx), missing)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "themes_unavailable", err)
	}
	for _, th := range rows {
		s.byID.Add(th.ID, th)
		out[th.ID] = th
	}
	return out, nil
}

func (s *themeService) purge() {
	s.mu.Lock()
	s.all = nil
	s.mu.Unlock()
	s.byID.Purge()
}

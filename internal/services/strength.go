package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type StrengthService interface {
	// Get returns the device's strengths by rank; empty when there is no profile.
	Get(ctx context.Context, deviceID string) ([]*types.UserStrength, error)
	// Replace stores five distinct themes as ranks 1..5, then rebuilds date's
	// selections so the new themes apply at once.
	Replace(ctx context.Context, deviceID string, themeIDs []uuid.UUID, date string) ([]*types.UserStrength, error)
	// Reset removes completions, selections and strengths for the device.
	Reset(ctx context.Context, deviceID string) error
}

type strengthService struct {
	db        *gorm.DB
	log       *logger.Logger
	profiles  repos.ProfileRepo
	strengths repos.UserStrengthRepo
	daily     repos.DailyPromptRepo
	completed repos.CompletionRepo
	themes    ThemeService
	engine    *selection.Engine
	cache     dailycache.Cache
	clock     Clock
}

func NewStrengthService(
	db *gorm.DB,
	log *logger.Logger,
	set repos.Set,
	themes ThemeService,
	engine *selection.Engine,
	cache dailycache.Cache,
	clock Clock,
) StrengthService {
	if cache == nil {
		cache = dailycache.NewNoop()
	}
	return &strengthService{
		db:        db,
		log:       log.With("service", "StrengthService"),
		profiles:  set.Profile,
		strengths: set.UserStrength,
		daily:     set.DailyPrompt,
		completed: set.Completion,
		themes:    themes,
		engine:    engine,
		cache:     cache,
		clock:     clock,
	}
}

func (s *strengthService) Get(ctx context.Context, deviceID string) ([]*types.UserStrength, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.strengths.ListByDeviceID(dbctx.From(ctx), deviceID)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "strengths_unavailable", err)
	}
	return rows, nil
}

func (s *strengthService) Replace(ctx context.Context, deviceID string, themeIDs []uuid.UUID, date string) ([]*types.UserStrength, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return nil, err
	}
	date, err = checkDate(date, s.clock)
	if err != nil {
		return nil, err
	}
	if err := s.validateThemes(ctx, themeIDs); err != nil {
		return nil, err
	}

	var saved []*types.UserStrength
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		profile, err := s.profiles.Ensure(dbc, deviceID)
		if err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}
		saved, err = s.strengths.Replace(dbc, profile.ID, themeIDs)
		if err != nil {
			return fmt.Errorf("replace strengths: %w", err)
		}
		if _, err := s.daily.DeleteByDeviceAndDate(dbc, deviceID, date); err != nil {
			return fmt.Errorf("clear selections: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "save_strengths_failed", err)
	}

	if err := s.cache.Invalidate(ctx, deviceID, date); err != nil {
		s.log.Warn("day cache invalidate failed", "device_id", deviceID, "for_date", date, "error", err)
	}
	if _, err := s.engine.Generate(ctx, deviceID, date); err != nil {
		// The next daily-prompts request heals this through GetOrGenerate.
		s.log.Warn("regenerate after strength change failed", ctxutil.LogFields(ctx, "device_id", deviceID, "for_date", date, "error", err)...)
	}
	s.log.Info("strengths replaced", "device_id", deviceID, "for_date", date)
	return saved, nil
}

func (s *strengthService) validateThemes(ctx context.Context, themeIDs []uuid.UUID) error {
	if len(themeIDs) != types.StrengthCount {
		return apierr.New(http.StatusBadRequest, "invalid_strengths",
			fmt.Errorf("exactly %d themes required, got %d", types.StrengthCount, len(themeIDs)))
	}
	seen := make(map[uuid.UUID]struct{}, len(themeIDs))
	for _, id := range themeIDs {
		if id == uuid.Nil {
			return apierr.New(http.StatusBadRequest, "invalid_strengths", fmt.Errorf("theme id is required"))
		}
		if _, dup := seen[id]; dup {
			return apierr.New(http.StatusBadRequest, "invalid_strengths", fmt.Errorf("theme %s chosen twice", id))
		}
		seen[id] = struct{}{}
	}
	known, err := s.themes.Resolve(ctx, themeIDs)
	if err != nil {
		return err
	}
	for _, id := range themeIDs {
		if _, ok := known[id]; !ok {
			return apierr.New(http.StatusBadRequest, "unknown_theme", fmt.Errorf("unknown theme %s", id))
		}
	}
	return nil
}

func (s *strengthService) Reset(ctx context.Context, deviceID string) error {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return err
	}
	dbc := dbctx.From(ctx)
	profile, err := s.profiles.GetByDeviceID(dbc, deviceID)
	if err != nil {
		return apierr.New(http.StatusServiceUnavailable, "reset_failed", err)
	}
	if profile == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.From(gctx)
	g.Go(func() error {
		_, err := s.completed.DeleteByDeviceID(gdbc, deviceID)
		return err
	})
	g.Go(func() error {
		_, err := s.daily.DeleteByDeviceID(gdbc, deviceID)
		return err
	})
	g.Go(func() error {
		_, err := s.strengths.DeleteByDeviceID(gdbc, deviceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return apierr.New(http.StatusServiceUnavailable, "reset_failed", err)
	}

	today := s.clock.today()
	for _, offset := range []int{-1, 0, 1} {
		date, _ := selection.AddDays(today, offset)
		if err := s.cache.Invalidate(ctx, deviceID, date); err != nil {
			s.log.Warn("day cache invalidate failed", "device_id", deviceID, "for_date", date, "error", err)
		}
	}
	s.log.Info("device data reset", "device_id", deviceID)
	return nil
}

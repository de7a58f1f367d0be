package services

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/catalog"
	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

const (
	viewSourceSelection = "selection"
	viewSourceCache     = "cache"
	viewSourceFallback  = "fallback"
)

type DailyPromptService interface {
	// Today returns the device's prompts for date. It only errors on bad input;
	// engine failures degrade to the cached view or the built-in defaults.
	Today(ctx context.Context, deviceID, date string) (*types.DayView, error)
	// Clear drops the stored selections for date so the next Today regenerates.
	Clear(ctx context.Context, deviceID, date string) (int64, error)
}

type dailyPromptService struct {
	log       *logger.Logger
	engine    *selection.Engine
	daily     repos.DailyPromptRepo
	completed repos.CompletionRepo
	cache     dailycache.Cache
	metrics   *observability.Metrics
	clock     Clock
}

func NewDailyPromptService(
	log *logger.Logger,
	engine *selection.Engine,
	set repos.Set,
	cache dailycache.Cache,
	metrics *observability.Metrics,
	clock Clock,
) DailyPromptService {
	if cache == nil {
		cache = dailycache.NewNoop()
	}
	return &dailyPromptService{
		log:       log.With("service", "DailyPromptService"),
		engine:    engine,
		daily:     set.DailyPrompt,
		completed: set.Completion,
		cache:     cache,
		metrics:   metrics,
		clock:     clock,
	}
}

func (s *dailyPromptService) Today(ctx context.Context, deviceID, date string) (*types.DayView, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return nil, err
	}
	date, err = checkDate(date, s.clock)
	if err != nil {
		return nil, err
	}

	view, err := s.fromSelection(ctx, deviceID, date)
	if err == nil {
		s.metrics.DayViewServed(viewSourceSelection, "")
		s.storeInCache(ctx, deviceID, date, view)
		return view, nil
	}

	switch {
	case errors.Is(err, selection.ErrInvalidInput):
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, selection.ErrPreconditionFailed):
		s.log.Info("serving default prompts, strengths incomplete", ctxutil.LogFields(ctx, "device_id", deviceID, "for_date", date)...)
		s.metrics.DayViewServed(viewSourceFallback, types.FallbackReasonPrecondition)
		return s.fallbackView(ctx, deviceID, date, types.FallbackReasonPrecondition, true), nil
	case errors.Is(err, selection.ErrStoreUnavailable):
		s.log.Warn("store unreachable, serving degraded view", ctxutil.LogFields(ctx, "device_id", deviceID, "for_date", date, "error", err)...)
		if cached := s.fromCache(ctx, deviceID, date); cached != nil {
			s.metrics.DayViewServed(viewSourceCache, types.FallbackReasonStoreUnavailable)
			return cached, nil
		}
		s.metrics.DayViewServed(viewSourceFallback, types.FallbackReasonStoreUnavailable)
		return s.fallbackView(ctx, deviceID, date, types.FallbackReasonStoreUnavailable, false), nil
	default:
		s.log.Error("daily selection failed", ctxutil.LogFields(ctx, "device_id", deviceID, "for_date", date, "error", err)...)
		s.metrics.DayViewServed(viewSourceSelection, "error")
		return nil, apierr.New(http.StatusInternalServerError, "daily_prompts_failed", err)
	}
}

func (s *dailyPromptService) fromSelection(ctx context.Context, deviceID, date string) (*types.DayView, error) {
	if _, err := s.engine.GetOrGenerate(ctx, deviceID, date); err != nil {
		return nil, err
	}
	dbc := dbctx.From(ctx)
	rows, err := s.daily.ListHydratedByDeviceAndDate(dbc, deviceID, date)
	if err != nil {
		return nil, markUnavailable(err)
	}
	done, err := s.completedPromptIDs(ctx, deviceID, date)
	if err != nil {
		return nil, markUnavailable(err)
	}

	view := &types.DayView{Date: date, Prompts: make([]types.DayPrompt, 0, len(rows))}
	for _, r := range rows {
		p := types.DayPrompt{
			ID:       r.ID,
			Aspect:   r.Aspect,
			ThemeID:  r.ThemeID,
			PromptID: r.PromptID,
		}
		if r.Prompt != nil {
			p.PromptText = r.Prompt.PromptText
		}
		if r.Theme != nil {
			p.ThemeName = r.Theme.Name
		}
		_, p.Completed = done[r.PromptID]
		view.Prompts = append(view.Prompts, p)
	}
	sortDayPrompts(view.Prompts)
	return view, nil
}

func (s *dailyPromptService) completedPromptIDs(ctx context.Context, deviceID, date string) (map[uuid.UUID]struct{}, error) {
	rows, err := s.completed.ListByDeviceAndDate(dbctx.From(ctx), deviceID, date)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]struct{}, len(rows))
	for _, c := range rows {
		out[c.PromptID] = struct{}{}
	}
	return out, nil
}

func (s *dailyPromptService) fromCache(ctx context.Context, deviceID, date string) *types.DayView {
	view, err := s.cache.Get(ctx, deviceID, date)
	if err != nil {
		s.metrics.CacheOp("get", "error")
		s.log.Warn("day cache read failed", "device_id", deviceID, "for_date", date, "error", err)
		return nil
	}
	if view == nil {
		s.metrics.CacheOp("get", "miss")
		return nil
	}
	s.metrics.CacheOp("get", "hit")
	view.Cached = true
	view.Reason = types.FallbackReasonStoreUnavailable
	return view
}

func (s *dailyPromptService) storeInCache(ctx context.Context, deviceID, date string, view *types.DayView) {
	if err := s.cache.Set(ctx, deviceID, date, view); err != nil {
		s.metrics.CacheOp("set", "error")
		s.log.Warn("day cache write failed", "device_id", deviceID, "for_date", date, "error", err)
		return
	}
	s.metrics.CacheOp("set", "ok")
}

// fallbackView builds the built-in default set. Completion flags are only
// looked up when the store is known to be reachable.
func (s *dailyPromptService) fallbackView(ctx context.Context, deviceID, date, reason string, storeUp bool) *types.DayView {
	view := &types.DayView{Date: date, Fallback: true, Reason: reason, Prompts: []types.DayPrompt{}}
	defaults, err := catalog.Fallback()
	if err != nil {
		s.log.Error("built-in fallback table is invalid", "error", err)
		return view
	}
	var done map[uuid.UUID]struct{}
	if storeUp {
		if done, err = s.completedPromptIDs(ctx, deviceID, date); err != nil {
			s.log.Warn("completion lookup for fallback failed", "device_id", deviceID, "error", err)
		}
	}
	for _, d := range defaults {
		_, completed := done[d.Prompt.ID]
		view.Prompts = append(view.Prompts, types.DayPrompt{
			ID:         d.Prompt.ID,
			Aspect:     d.Prompt.Aspect,
			ThemeID:    d.Theme.ID,
			ThemeName:  d.Theme.Name,
			PromptID:   d.Prompt.ID,
			PromptText: d.Prompt.PromptText,
			Completed:  completed,
		})
	}
	return view
}

func (s *dailyPromptService) Clear(ctx context.Context, deviceID, date string) (int64, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return 0, err
	}
	date, err = checkDate(date, s.clock)
	if err != nil {
		return 0, err
	}
	n, err := s.daily.DeleteByDeviceAndDate(dbctx.From(ctx), deviceID, date)
	if err != nil {
		return 0, apierr.New(http.StatusServiceUnavailable, "clear_failed", err)
	}
	if err := s.cache.Invalidate(ctx, deviceID, date); err != nil {
		s.log.Warn("day cache invalidate failed", "device_id", deviceID, "for_date", date, "error", err)
	}
	s.log.Info("selections cleared", "device_id", deviceID, "for_date", date, "deleted", n)
	return n, nil
}

func sortDayPrompts(p []types.DayPrompt) {
	sort.SliceStable(p, func(i, j int) bool { return p[i].Aspect.Index() < p[j].Aspect.Index() })
}

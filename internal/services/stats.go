package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

const (
	DefaultStreakLookbackDays = 90
	DefaultStatsDays          = 30
	MaxStatsDays              = 365
	topStrengths              = 5
)

type Streaks struct {
	CurrentStreak     int `json:"current_streak"`
	LongestStreak     int `json:"longest_streak"`
	TotalCompleteDays int `json:"total_complete_days"`
}

type AspectStats struct {
	AspectCounts   map[types.Aspect]int64 `json:"aspect_counts"`
	TotalCompleted int64                  `json:"total_completed"`
	TotalPossible  int64                  `json:"total_possible"`
	CompletionRate float64                `json:"completion_rate"`
}

type StrengthCount struct {
	ThemeID string `json:"theme_id"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}

type StatsSummary struct {
	Streaks   Streaks         `json:"streaks"`
	Aspects   AspectStats     `json:"aspects"`
	Strengths []StrengthCount `json:"strengths"`
}

type StatsService interface {
	Streaks(ctx context.Context, deviceID, today string) (Streaks, error)
	ByAspect(ctx context.Context, deviceID, today string, days int) (AspectStats, error)
	ByStrength(ctx context.Context, deviceID, today string, days int) ([]StrengthCount, error)
	// Summary runs the three queries concurrently.
	Summary(ctx context.Context, deviceID, today string, days int) (StatsSummary, error)
}

type statsService struct {
	log       *logger.Logger
	completed repos.CompletionRepo
	lookback  int
	clock     Clock
}

func NewStatsService(log *logger.Logger, set repos.Set, lookbackDays int, clock Clock) StatsService {
	if lookbackDays <= 0 {
		lookbackDays = DefaultStreakLookbackDays
	}
	return &statsService{
		log:       log.With("service", "StatsService"),
		completed: set.Completion,
		lookback:  lookbackDays,
		clock:     clock,
	}
}

func (s *statsService) Streaks(ctx context.Context, deviceID, today string) (Streaks, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return Streaks{}, err
	}
	if today, err = checkDate(today, s.clock); err != nil {
		return Streaks{}, err
	}
	return s.streaks(ctx, deviceID, today)
}

func (s *statsService) streaks(ctx context.Context, deviceID, today string) (Streaks, error) {
	since, err := selection.AddDays(today, -s.lookback)
	if err != nil {
		return Streaks{}, apierr.BadRequest("invalid_date", err)
	}
	dates, err := s.completed.CompletedDates(dbctx.From(ctx), deviceID, since, today)
	if err != nil {
		return Streaks{}, storeError("stats_unavailable", err)
	}
	return ComputeStreaks(dates, today), nil
}

// ComputeStreaks derives streaks from distinct completed dates. The current
// streak ends at today and is zero when today has no completion.
func ComputeStreaks(dates []string, today string) Streaks {
	days := make(map[int64]struct{}, len(dates))
	var ordered []int64
	for _, d := range dates {
		t, err := selection.ParseDate(d)
		if err != nil {
			continue
		}
		idx := selection.DayIndex(t)
		if _, dup := days[idx]; dup {
			continue
		}
		days[idx] = struct{}{}
		ordered = append(ordered, idx)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	out := Streaks{TotalCompleteDays: len(ordered)}
	run := 0
	for i, idx := range ordered {
		if i > 0 && idx-ordered[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		if run > out.LongestStreak {
			out.LongestStreak = run
		}
	}

	t, err := selection.ParseDate(today)
	if err != nil {
		return out
	}
	for idx := selection.DayIndex(t); ; idx-- {
		if _, ok := days[idx]; !ok {
			break
		}
		out.CurrentStreak++
	}
	return out
}

func (s *statsService) ByAspect(ctx context.Context, deviceID, today string, days int) (AspectStats, error) {
	deviceID, today, days, err := s.window(deviceID, today, days)
	if err != nil {
		return AspectStats{}, err
	}
	return s.byAspect(ctx, deviceID, today, days)
}

func (s *statsService) byAspect(ctx context.Context, deviceID, today string, days int) (AspectStats, error) {
	since, _ := selection.AddDays(today, -(days - 1))
	rows, err := s.completed.CountByAspect(dbctx.From(ctx), deviceID, since, today)
	if err != nil {
		return AspectStats{}, storeError("stats_unavailable", err)
	}
	out := AspectStats{
		AspectCounts:  make(map[types.Aspect]int64, len(types.Aspects)),
		TotalPossible: int64(days) * int64(len(types.Aspects)),
	}
	for _, a := range types.Aspects {
		out.AspectCounts[a] = 0
	}
	for _, r := range rows {
		if !r.Aspect.Valid() {
			continue
		}
		out.AspectCounts[r.Aspect] += r.Count
		out.TotalCompleted += r.Count
	}
	if out.TotalPossible > 0 {
		rate := float64(out.TotalCompleted) / float64(out.TotalPossible) * 100
		out.CompletionRate = math.Round(rate*10) / 10
	}
	return out, nil
}

func (s *statsService) ByStrength(ctx context.Context, deviceID, today string, days int) ([]StrengthCount, error) {
	deviceID, today, days, err := s.window(deviceID, today, days)
	if err != nil {
		return nil, err
	}
	return s.byStrength(ctx, deviceID, today, days)
}

func (s *statsService) byStrength(ctx context.Context, deviceID, today string, days int) ([]StrengthCount, error) {
	since, _ := selection.AddDays(today, -(days - 1))
	rows, err := s.completed.CountByTheme(dbctx.From(ctx), deviceID, since, today, topStrengths)
	if err != nil {
		return nil, storeError("stats_unavailable", err)
	}
	out := make([]StrengthCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, StrengthCount{ThemeID: r.ThemeID.String(), Name: r.ThemeName, Count: r.Count})
	}
	return out, nil
}

func (s *statsService) Summary(ctx context.Context, deviceID, today string, days int) (StatsSummary, error) {
	deviceID, today, days, err := s.window(deviceID, today, days)
	if err != nil {
		return StatsSummary{}, err
	}
	var out StatsSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Streaks, err = s.streaks(gctx, deviceID, today)
		return err
	})
	g.Go(func() error {
		var err error
		out.Aspects, err = s.byAspect(gctx, deviceID, today, days)
		return err
	})
	g.Go(func() error {
		var err error
		out.Strengths, err = s.byStrength(gctx, deviceID, today, days)
		return err
	})
	if err := g.Wait(); err != nil {
		return StatsSummary{}, err
	}
	return out, nil
}

func (s *statsService) window(deviceID, today string, days int) (string, string, int, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return "", "", 0, err
	}
	if today, err = checkDate(today, s.clock); err != nil {
		return "", "", 0, err
	}
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 1 || days > MaxStatsDays {
		return "", "", 0, apierr.BadRequest("invalid_days", fmt.Errorf("days must be between 1 and %d", MaxStatsDays))
	}
	return deviceID, today, days, nil
}

package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

// DefaultExclusionDays is how far back prompts are kept out of rotation.
const DefaultExclusionDays = 14

type Config struct {
	ExclusionDays int
}

// Engine assigns one prompt per aspect for a device and date. It holds no
// state of its own; all durability lives in the SelectionStore.
type Engine struct {
	log        *logger.Logger
	strengths  StrengthStore
	catalog    PromptCatalog
	selections SelectionStore
	observer   Observer
	tracer     trace.Tracer
	exclusion  int
}

type Option func(*Engine)

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func NewEngine(baseLog *logger.Logger, strengths StrengthStore, catalog PromptCatalog, selections SelectionStore, cfg Config, opts ...Option) *Engine {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	exclusion := cfg.ExclusionDays
	if exclusion <= 0 {
		exclusion = DefaultExclusionDays
	}
	e := &Engine{
		log:        baseLog.With("module", "selection"),
		strengths:  strengths,
		catalog:    catalog,
		selections: selections,
		observer:   nopObserver{},
		tracer:     otel.Tracer("selection"),
		exclusion:  exclusion,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExclusionDays reports the configured look-back window.
func (e *Engine) ExclusionDays() int { return e.exclusion }

// Generate computes and persists the selections for (deviceID, date) and
// returns what the store holds afterwards, ordered by aspect. Rows already
// present for the date are never overwritten, so repeated or concurrent calls
// converge on the first persisted set.
func (e *Engine) Generate(ctx context.Context, deviceID, date string) (out []Assignment, err error) {
	ctx, span := e.tracer.Start(ctx, "selection.Generate", trace.WithAttributes(attribute.String("for_date", date)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.observer.SelectionOutcome(OutcomeFailed)
		}
		span.End()
	}()

	day, err := e.validate(deviceID, date)
	if err != nil {
		return nil, err
	}

	themeIDs, err := e.rankedThemes(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	excluded, err := e.recentPromptIDs(ctx, deviceID, date)
	if err != nil {
		return nil, err
	}

	primaries := PrimaryThemes(themeIDs, DayIndex(day))
	rows := make([]Assignment, 0, len(types.Aspects))
	for i, aspect := range types.Aspects {
		pick, ok, err := e.pickForAspect(ctx, aspect, themeIDs, excluded, primaries[i])
		if err != nil {
			return nil, err
		}
		if !ok {
			e.log.Warn("no prompt available for aspect", "device_id", deviceID, "for_date", date, "aspect", aspect)
			e.observer.AspectSkipped(aspect)
			continue
		}
		rows = append(rows, Assignment{
			DeviceID: deviceID,
			ForDate:  date,
			Aspect:   aspect,
			ThemeID:  pick.ThemeID,
			PromptID: pick.ID,
		})
	}

	if len(rows) > 0 {
		if err := e.selections.UpsertIgnoringDuplicates(ctx, rows); err != nil {
			return nil, storeFailure("upsert selections", err)
		}
	}

	out, err = e.selections.ListForUserAndDate(ctx, deviceID, date)
	if err != nil {
		return nil, storeFailure("read selections", err)
	}
	SortByAspect(out)
	span.SetAttributes(attribute.Int("selections", len(out)))
	e.observer.SelectionOutcome(OutcomeGenerated)
	e.log.Debug("selections generated", "device_id", deviceID, "for_date", date, "count", len(out), "excluded", len(excluded))
	return out, nil
}

// GetOrGenerate returns the stored selections when a full set exists and
// generates otherwise.
func (e *Engine) GetOrGenerate(ctx context.Context, deviceID, date string) ([]Assignment, error) {
	if _, err := e.validate(deviceID, date); err != nil {
		return nil, err
	}
	existing, err := e.selections.ListForUserAndDate(ctx, deviceID, date)
	if err != nil {
		e.observer.SelectionOutcome(OutcomeFailed)
		return nil, storeFailure("read selections", err)
	}
	if len(existing) == len(types.Aspects) {
		SortByAspect(existing)
		e.observer.SelectionOutcome(OutcomeReused)
		return existing, nil
	}
	return e.Generate(ctx, deviceID, date)
}

func (e *Engine) validate(deviceID, date string) (time.Time, error) {
	if strings.TrimSpace(deviceID) == "" {
		return time.Time{}, fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}
	return ParseDate(date)
}

func (e *Engine) rankedThemes(ctx context.Context, deviceID string) ([]uuid.UUID, error) {
	strengths, err := e.strengths.GetStrengths(ctx, deviceID)
	switch {
	case errors.Is(err, ErrNoProfile):
		return nil, fmt.Errorf("%w: no profile", ErrPreconditionFailed)
	case err != nil:
		return nil, storeFailure("load strengths", err)
	}
	if len(strengths) != types.StrengthCount {
		return nil, fmt.Errorf("%w: have %d", ErrPreconditionFailed, len(strengths))
	}
	ranked := make([]Strength, len(strengths))
	copy(ranked, strengths)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	ids := make([]uuid.UUID, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ThemeID
	}
	return ids, nil
}

func (e *Engine) recentPromptIDs(ctx context.Context, deviceID, date string) ([]uuid.UUID, error) {
	since, err := AddDays(date, -e.exclusion)
	if err != nil {
		return nil, err
	}
	ids, err := e.selections.ListRecentPromptIDs(ctx, deviceID, since, date)
	if err != nil {
		return nil, storeFailure("read recent selections", err)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// pickForAspect queries with the exclusion set first and relaxes it when
// nothing is left. Within the candidates, a prompt of the primary theme wins,
// otherwise the first one the catalog returned.
func (e *Engine) pickForAspect(ctx context.Context, aspect types.Aspect, themeIDs, excluded []uuid.UUID, primary uuid.UUID) (Candidate, bool, error) {
	candidates, err := e.catalog.FindPrompts(ctx, PromptQuery{
		Aspect:     aspect,
		ThemeIDs:   themeIDs,
		ExcludeIDs: excluded,
	})
	if err != nil {
		return Candidate{}, false, storeFailure("find prompts", err)
	}
	if len(candidates) == 0 {
		candidates, err = e.catalog.FindPrompts(ctx, PromptQuery{
			Aspect:   aspect,
			ThemeIDs: themeIDs,
			Limit:    1,
		})
		if err != nil {
			return Candidate{}, false, storeFailure("find prompts relaxed", err)
		}
		if len(candidates) > 0 {
			e.observer.ExclusionRelaxed(aspect)
		}
	}
	if len(candidates) == 0 {
		return Candidate{}, false, nil
	}
	for _, c := range candidates {
		if c.ThemeID == primary {
			return c, true, nil
		}
	}
	return candidates[0], true, nil
}

// SortByAspect orders assignments career, social, financial, physical, community.
func SortByAspect(rows []Assignment) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Aspect.Index() < rows[j].Aspect.Index()
	})
}

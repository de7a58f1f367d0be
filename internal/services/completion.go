package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/db"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/apierr"
	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

// CompletionEntry is the wire shape of one completed prompt.
type CompletionEntry struct {
	PromptID uuid.UUID    `json:"prompt_id"`
	Aspect   types.Aspect `json:"aspect"`
}

type CompletionService interface {
	// Toggle flips the completion of promptID on forDate and returns the new state.
	// forDate must be within a day of the server's UTC date.
	Toggle(ctx context.Context, deviceID string, promptID uuid.UUID, aspect, forDate string) (bool, error)
	ListForDate(ctx context.Context, deviceID, date string) ([]CompletionEntry, error)
}

type completionService struct {
	db        *gorm.DB
	log       *logger.Logger
	prompts   repos.PromptRepo
	completed repos.CompletionRepo
	cache     dailycache.Cache
	metrics   *observability.Metrics
	clock     Clock
}

func NewCompletionService(
	db *gorm.DB,
	log *logger.Logger,
	set repos.Set,
	cache dailycache.Cache,
	metrics *observability.Metrics,
	clock Clock,
) CompletionService {
	if cache == nil {
		cache = dailycache.NewNoop()
	}
	return &completionService{
		db:        db,
		log:       log.With("service", "CompletionService"),
		prompts:   set.Prompt,
		completed: set.Completion,
		cache:     cache,
		metrics:   metrics,
		clock:     clock,
	}
}

func (s *completionService) Toggle(ctx context.Context, deviceID string, promptID uuid.UUID, aspect, forDate string) (bool, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return false, err
	}
	if promptID == uuid.Nil {
		return false, apierr.BadRequest("invalid_prompt_id", fmt.Errorf("prompt_id is required"))
	}
	a, ok := types.ParseAspect(aspect)
	if !ok {
		return false, apierr.BadRequest("invalid_aspect", fmt.Errorf("unknown aspect %q", aspect))
	}
	if forDate == "" {
		return false, apierr.BadRequest("invalid_date", fmt.Errorf("for_date is required"))
	}
	if err := s.checkToday(forDate); err != nil {
		return false, err
	}

	found, err := s.prompts.GetByIDs(dbctx.From(ctx), []uuid.UUID{promptID})
	if err != nil {
		return false, storeError("toggle_failed", err)
	}
	if len(found) == 0 {
		return false, apierr.NotFound("prompt_not_found", fmt.Errorf("prompt %s not found", promptID))
	}
	if found[0].Aspect != a {
		return false, apierr.BadRequest("aspect_mismatch",
			fmt.Errorf("prompt %s belongs to %s, not %s", promptID, found[0].Aspect, a))
	}

	var completed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.completed.Exists(dbc, deviceID, promptID, forDate)
		if err != nil {
			return err
		}
		if exists {
			_, err = s.completed.Delete(dbc, deviceID, promptID, forDate)
			completed = false
			return err
		}
		_, err = s.completed.Create(dbc, &types.Completion{
			DeviceID: deviceID,
			PromptID: promptID,
			Aspect:   a,
			ForDate:  forDate,
		})
		completed = true
		return err
	})
	switch {
	case err == nil:
	case completed && db.IsUniqueViolation(err):
		// A concurrent toggle inserted the same row first.
	default:
		return false, storeError("toggle_failed", err)
	}

	if err := s.cache.Invalidate(ctx, deviceID, forDate); err != nil {
		s.log.Warn("day cache invalidate failed", "device_id", deviceID, "for_date", forDate, "error", err)
	}
	s.metrics.CompletionToggled(completed)
	s.log.Debug("completion toggled", ctxutil.LogFields(ctx, "device_id", deviceID, "prompt_id", promptID, "for_date", forDate, "completed", completed)...)
	return completed, nil
}

// checkToday accepts the server's UTC date and its neighbours, since clients
// send their local calendar date.
func (s *completionService) checkToday(forDate string) error {
	d, err := selection.ParseDate(forDate)
	if err != nil {
		return apierr.BadRequest("invalid_date", err)
	}
	today, _ := selection.ParseDate(s.clock.today())
	diff := selection.DayIndex(d) - selection.DayIndex(today)
	if diff < -1 || diff > 1 {
		return apierr.New(http.StatusConflict, "not_today",
			fmt.Errorf("completions can only be changed for today, got %s", forDate))
	}
	return nil
}

func (s *completionService) ListForDate(ctx context.Context, deviceID, date string) ([]CompletionEntry, error) {
	deviceID, err := checkDevice(deviceID)
	if err != nil {
		return nil, err
	}
	date, err = checkDate(date, s.clock)
	if err != nil {
		return nil, err
	}
	rows, err := s.completed.ListByDeviceAndDate(dbctx.From(ctx), deviceID, date)
	if err != nil {
		return nil, storeError("completions_unavailable", err)
	}
	out := make([]CompletionEntry, 0, len(rows))
	for _, c := range rows {
		out = append(out, CompletionEntry{PromptID: c.PromptID, Aspect: c.Aspect})
	}
	return out, nil
}

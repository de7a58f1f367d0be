package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	apphttp "github.com/jellyjae/cliftonstrengths/internal/http"
	httpH "github.com/jellyjae/cliftonstrengths/internal/http/handlers"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type Services struct {
	Engine      *selection.Engine
	Theme       services.ThemeService
	Strength    services.StrengthService
	DailyPrompt services.DailyPromptService
	Completion  services.CompletionService
	Stats       services.StatsService
	Import      services.ImportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, cache dailycache.Cache, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	store := services.NewSelectionStore(set)
	engine := selection.NewEngine(log, store, store, store,
		selection.Config{ExclusionDays: cfg.ExclusionDays},
		selection.WithObserver(metrics),
	)
	themes, err := services.NewThemeService(db, log, set.Theme, set.Prompt, cfg.ThemeCacheSize)
	if err != nil {
		return Services{}, fmt.Errorf("init theme service: %w", err)
	}
	return Services{
		Engine:      engine,
		Theme:       themes,
		Strength:    services.NewStrengthService(db, log, set, themes, engine, cache, nil),
		DailyPrompt: services.NewDailyPromptService(log, engine, set, cache, metrics, nil),
		Completion:  services.NewCompletionService(db, log, set, cache, metrics, nil),
		Stats:       services.NewStatsService(log, set, cfg.StreakLookbackDays, nil),
		Import:      services.NewImportService(db, log, set, metrics),
	}, nil
}

func wireRouter(cfg Config, log *logger.Logger, metrics *observability.Metrics, s Services, ping func(context.Context) error) apphttp.RouterConfig {
	log.Info("Wiring handlers...")
	rc := apphttp.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		HealthHandler:      httpH.NewHealthHandler(ping),
		DeviceHandler:      httpH.NewDeviceHandler(),
		ThemeHandler:       httpH.NewThemeHandler(s.Theme),
		StrengthHandler:    httpH.NewStrengthHandler(s.Strength),
		DailyPromptHandler: httpH.NewDailyPromptHandler(s.DailyPrompt),
		CompletionHandler:  httpH.NewCompletionHandler(s.Completion),
		StatsHandler:       httpH.NewStatsHandler(s.Stats),
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	return rc
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/jellyjae/cliftonstrengths/internal/http/handlers"
	httpMW "github.com/jellyjae/cliftonstrengths/internal/http/middleware"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// ServiceName enables otelgin spans when non-empty.
	ServiceName string

	HealthHandler      *httpH.HealthHandler
	DeviceHandler      *httpH.DeviceHandler
	ThemeHandler       *httpH.ThemeHandler
	StrengthHandler    *httpH.StrengthHandler
	DailyPromptHandler *httpH.DailyPromptHandler
	CompletionHandler  *httpH.CompletionHandler
	StatsHandler       *httpH.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health/db", cfg.HealthHandler.DBHealth)
		}

		// Device
		if cfg.DeviceHandler != nil {
			api.POST("/device", cfg.DeviceHandler.Issue)
		}

		// Themes
		if cfg.ThemeHandler != nil {
			api.GET("/themes", cfg.ThemeHandler.List)
		}

		// Strengths / profile
		if cfg.StrengthHandler != nil {
			api.GET("/strengths", cfg.StrengthHandler.Get)
			api.PUT("/strengths", cfg.StrengthHandler.Replace)
			api.DELETE("/profile", cfg.StrengthHandler.Reset)
		}

		// Daily prompts
		if cfg.DailyPromptHandler != nil {
			api.POST("/daily-prompts", cfg.DailyPromptHandler.Today)
			api.POST("/clear-prompts", cfg.DailyPromptHandler.Clear)
		}

		// Completions
		if cfg.CompletionHandler != nil {
			api.GET("/completions", cfg.CompletionHandler.List)
			api.POST("/completions/toggle", cfg.CompletionHandler.Toggle)
		}

		// Stats
		if cfg.StatsHandler != nil {
			api.GET("/stats/streaks", cfg.StatsHandler.Streaks)
			api.GET("/stats/aspects", cfg.StatsHandler.Aspects)
			api.GET("/stats/strengths", cfg.StatsHandler.Strengths)
			api.GET("/stats/summary", cfg.StatsHandler.Summary)
		}
	}

	return r
}

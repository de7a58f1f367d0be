package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/db"
	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type Config struct {
	Port    string
	LogMode string

	Store db.Config
	Redis dailycache.RedisConfig

	ThemeCacheSize     int
	ExclusionDays      int
	StreakLookbackDays int
	SeedOnStartup      bool

	CORSOrigins    []string
	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("STORE_DRIVER", db.DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_NAME", "strengths")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "strengths.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DAILY_CACHE_TTL_SECONDS", int(dailycache.DefaultTTL/time.Second))
	v.SetDefault("THEME_CACHE_SIZE", services.DefaultThemeCacheSize)
	v.SetDefault("EXCLUSION_DAYS", selection.DefaultExclusionDays)
	v.SetDefault("STATS_STREAK_LOOKBACK_DAYS", services.DefaultStreakLookbackDays)
	v.SetDefault("SEED_ON_STARTUP", true)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "strengths-api")
	v.SetDefault("OTEL_SAMPLER_RATIO", 1.0)
}

// LoadConfig reads the environment and, when CONFIG_FILE is set, a YAML file
// underneath it. Environment values win.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:    v.GetString("PORT"),
		LogMode: v.GetString("LOG_MODE"),
		Store: db.Config{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
			Postgres: db.PostgresConfig{
				DSN:      v.GetString("POSTGRES_DSN"),
				Host:     v.GetString("POSTGRES_HOST"),
				Port:     v.GetString("POSTGRES_PORT"),
				User:     v.GetString("POSTGRES_USER"),
				Password: v.GetString("POSTGRES_PASSWORD"),
				Name:     v.GetString("POSTGRES_NAME"),
				SSLMode:  v.GetString("POSTGRES_SSLMODE"),
			},
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Redis: dailycache.RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("DAILY_CACHE_TTL_SECONDS")) * time.Second,
		},
		ThemeCacheSize:     v.GetInt("THEME_CACHE_SIZE"),
		ExclusionDays:      v.GetInt("EXCLUSION_DAYS"),
		StreakLookbackDays: v.GetInt("STATS_STREAK_LOOKBACK_DAYS"),
		SeedOnStartup:      v.GetBool("SEED_ON_STARTUP"),
		CORSOrigins:        splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
			Version:     v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLER_RATIO"),
		},
	}

	switch cfg.Store.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, cfg.Store.Driver)
	}
	if cfg.ExclusionDays < 0 {
		return Config{}, fmt.Errorf("EXCLUSION_DAYS must not be negative")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

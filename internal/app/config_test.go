package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/jellyjae/cliftonstrengths/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := fromViper(defaultsOnly())
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != db.DriverPostgres {
		t.Fatalf("unexpected defaults: port=%s driver=%s", cfg.Port, cfg.Store.Driver)
	}
	if cfg.ExclusionDays != 14 || cfg.StreakLookbackDays != 90 {
		t.Fatalf("selection defaults: exclusion=%d lookback=%d", cfg.ExclusionDays, cfg.StreakLookbackDays)
	}
	if cfg.Redis.TTL != 36*time.Hour {
		t.Fatalf("cache ttl: %v", cfg.Redis.TTL)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors origins should default to empty, got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/strengths-test.db")
	t.Setenv("EXCLUSION_DAYS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Driver != db.DriverSQLite || cfg.Store.SQLitePath != "/tmp/strengths-test.db" {
		t.Fatalf("store config: %+v", cfg.Store)
	}
	if cfg.ExclusionDays != 7 {
		t.Fatalf("EXCLUSION_DAYS: got %d", cfg.ExclusionDays)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Fatalf("CORS_ALLOWED_ORIGINS: got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("PORT: \"9090\"\nEXCLUSION_DAYS: 21\nSTORE_DRIVER: sqlite\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env should win over file, got port %s", cfg.Port)
	}
	if cfg.ExclusionDays != 21 || cfg.Store.Driver != db.DriverSQLite {
		t.Fatalf("file values not applied: exclusion=%d driver=%s", cfg.ExclusionDays, cfg.Store.Driver)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("CONFIG_FILE", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func defaultsOnly() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

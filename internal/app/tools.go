package app

import (
	"context"
	"fmt"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/db"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

// Tools is the slice of the app the admin CLI needs: store, catalog and import.
type Tools struct {
	Log    *logger.Logger
	Theme  services.ThemeService
	Import services.ImportService
	close  func()
}

func NewTools(ctx context.Context) (*Tools, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	core, err := openCore(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	s, err := wireServices(core.db, log, cfg, core.repos, dailycache.NewNoop(), nil)
	if err != nil {
		_ = db.Close(core.db)
		log.Sync()
		return nil, err
	}
	return &Tools{
		Log:    log,
		Theme:  s.Theme,
		Import: s.Import,
		close: func() {
			_ = db.Close(core.db)
			log.Sync()
		},
	}, nil
}

func (t *Tools) Close() {
	if t != nil && t.close != nil {
		t.close()
	}
}

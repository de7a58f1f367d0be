package content

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type ThemeRepo interface {
	// UpsertAll inserts themes whose id is not yet present and returns how many were new.
	UpsertAll(dbc dbctx.Context, themes []*types.Theme) (int64, error)
	List(dbc dbctx.Context) ([]*types.Theme, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Theme, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.Theme, error)
	Count(dbc dbctx.Context) (int64, error)
}

type themeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeRepo(db *gorm.DB, baseLog *logger.Logger) ThemeRepo {
	return &themeRepo{db: db, log: baseLog.With("repo", "ThemeRepo")}
}

func (r *themeRepo) UpsertAll(dbc dbctx.Context, themes []*types.Theme) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(themes) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&themes)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *themeRepo) List(dbc dbctx.Context) ([]*types.Theme, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Theme
	if err := t.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Theme, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Theme
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByNames matches names case-insensitively.
func (r *themeRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.Theme, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Theme
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			lowered = append(lowered, n)
		}
	}
	if len(lowered) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("LOWER(name) IN ?", lowered).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Theme{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

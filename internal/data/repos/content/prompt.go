package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

// DefaultBatchSize is used by CreateIgnoringDuplicates when batchSize <= 0.
const DefaultBatchSize = 100

// PromptFilter narrows Find to one aspect and a set of themes.
type PromptFilter struct {
	Aspect     types.Aspect
	ThemeIDs   []uuid.UUID
	ExcludeIDs []uuid.UUID
	Limit      int
}

type ThemeAspectCount struct {
	ThemeID uuid.UUID    `gorm:"column:theme_id"`
	Aspect  types.Aspect `gorm:"column:aspect"`
	Count   int64        `gorm:"column:count"`
}

type PromptRepo interface {
	// CreateIgnoringDuplicates inserts prompts in batches. Rows that collide on
	// (theme_id, aspect, prompt_text) are dropped; the return is the number inserted.
	CreateIgnoringDuplicates(dbc dbctx.Context, prompts []*types.Prompt, batchSize int) (int64, error)
	Find(dbc dbctx.Context, f PromptFilter) ([]*types.Prompt, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Prompt, error)
	CountByThemeAspect(dbc dbctx.Context) ([]ThemeAspectCount, error)
	Count(dbc dbctx.Context) (int64, error)
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return &promptRepo{db: db, log: baseLog.With("repo", "PromptRepo")}
}

func (r *promptRepo) CreateIgnoringDuplicates(dbc dbctx.Context, prompts []*types.Prompt, batchSize int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(prompts) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&prompts, batchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *promptRepo) Find(dbc dbctx.Context, f PromptFilter) ([]*types.Prompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Prompt
	if len(f.ThemeIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).
		Where("aspect = ?", f.Aspect).
		Where("theme_id IN ?", f.ThemeIDs)
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Prompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Prompt
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Preload("Theme").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptRepo) CountByThemeAspect(dbc dbctx.Context) ([]ThemeAspectCount, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []ThemeAspectCount
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Prompt{}).
		Select("theme_id, aspect, COUNT(*) AS count").
		Group("theme_id, aspect").
		Order("theme_id, aspect").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Prompt{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

package daily

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type AspectCount struct {
	Aspect types.Aspect `gorm:"column:aspect"`
	Count  int64        `gorm:"column:count"`
}

type ThemeCount struct {
	ThemeID   uuid.UUID `gorm:"column:theme_id"`
	ThemeName string    `gorm:"column:theme_name"`
	Count     int64     `gorm:"column:count"`
}

type CompletionRepo interface {
	// Create inserts the completion unless it already exists; reports whether a row was added.
	Create(dbc dbctx.Context, row *types.Completion) (bool, error)
	Delete(dbc dbctx.Context, deviceID string, promptID uuid.UUID, forDate string) (int64, error)
	Exists(dbc dbctx.Context, deviceID string, promptID uuid.UUID, forDate string) (bool, error)
	ListByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.Completion, error)
	// CompletedDates returns the distinct dates in [since, until] with at least one completion, ascending.
	CompletedDates(dbc dbctx.Context, deviceID, since, until string) ([]string, error)
	CountByAspect(dbc dbctx.Context, deviceID, since, until string) ([]AspectCount, error)
	// CountByTheme joins completions to their prompt's theme, most completed first.
	CountByTheme(dbc dbctx.Context, deviceID, since, until string, limit int) ([]ThemeCount, error)
	DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error)
}

type completionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionRepo(db *gorm.DB, baseLog *logger.Logger) CompletionRepo {
	return &completionRepo{db: db, log: baseLog.With("repo", "CompletionRepo")}
}

func (r *completionRepo) Create(dbc dbctx.Context, row *types.Completion) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "prompt_id"}, {Name: "for_date"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *completionRepo) Delete(dbc dbctx.Context, deviceID string, promptID uuid.UUID, forDate string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("device_id = ? AND prompt_id = ? AND for_date = ?", deviceID, promptID, forDate).
		Delete(&types.Completion{})
	return res.RowsAffected, res.Error
}

func (r *completionRepo) Exists(dbc dbctx.Context, deviceID string, promptID uuid.UUID, forDate string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Completion{}).
		Where("device_id = ? AND prompt_id = ? AND for_date = ?", deviceID, promptID, forDate).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *completionRepo) ListByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.Completion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Completion
	if err := t.WithContext(dbc.Ctx).
		Where("device_id = ? AND for_date = ?", deviceID, forDate).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *completionRepo) CompletedDates(dbc dbctx.Context, deviceID, since, until string) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var dates []string
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Completion{}).
		Where("device_id = ? AND for_date >= ? AND for_date <= ?", deviceID, since, until).
		Distinct().
		Order("for_date ASC").
		Pluck("for_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *completionRepo) CountByAspect(dbc dbctx.Context, deviceID, since, until string) ([]AspectCount, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []AspectCount
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Completion{}).
		Select("aspect, COUNT(*) AS count").
		Where("device_id = ? AND for_date >= ? AND for_date <= ?", deviceID, since, until).
		Group("aspect").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *completionRepo) CountByTheme(dbc dbctx.Context, deviceID, since, until string, limit int) ([]ThemeCount, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []ThemeCount
	q := t.WithContext(dbc.Ctx).
		Table("completions").
		Select("themes.id AS theme_id, themes.name AS theme_name, COUNT(*) AS count").
		Joins("JOIN prompts ON prompts.id = completions.prompt_id").
		Joins("JOIN themes ON themes.id = prompts.theme_id").
		Where("completions.device_id = ? AND completions.for_date >= ? AND completions.for_date <= ?", deviceID, since, until).
		Group("themes.id, themes.name").
		Order("count DESC").
		Order("themes.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *completionRepo) DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("device_id = ?", deviceID).Delete(&types.Completion{})
	return res.RowsAffected, res.Error
}

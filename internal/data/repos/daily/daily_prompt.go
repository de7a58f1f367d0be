package daily

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type DailyPromptRepo interface {
	// CreateIgnoringDuplicates inserts rows whose (device_id, for_date, aspect)
	// is absent and drops the rest. Returns the number inserted.
	CreateIgnoringDuplicates(dbc dbctx.Context, rows []*types.DailyPrompt) (int64, error)
	ListByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.DailyPrompt, error)
	// ListHydratedByDeviceAndDate is ListByDeviceAndDate with Prompt and Theme preloaded.
	ListHydratedByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.DailyPrompt, error)
	// ListPromptIDsBetween returns distinct prompt ids on dates in [since, before).
	ListPromptIDsBetween(dbc dbctx.Context, deviceID, since, before string) ([]uuid.UUID, error)
	DeleteByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) (int64, error)
	DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error)
}

type dailyPromptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyPromptRepo(db *gorm.DB, baseLog *logger.Logger) DailyPromptRepo {
	return &dailyPromptRepo{db: db, log: baseLog.With("repo", "DailyPromptRepo")}
}

func (r *dailyPromptRepo) CreateIgnoringDuplicates(dbc dbctx.Context, rows []*types.DailyPrompt) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "for_date"}, {Name: "aspect"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *dailyPromptRepo) ListByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.DailyPrompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DailyPrompt
	if err := t.WithContext(dbc.Ctx).
		Where("device_id = ? AND for_date = ?", deviceID, forDate).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyPromptRepo) ListHydratedByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) ([]*types.DailyPrompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DailyPrompt
	if err := t.WithContext(dbc.Ctx).
		Preload("Prompt").
		Preload("Theme").
		Where("device_id = ? AND for_date = ?", deviceID, forDate).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyPromptRepo) ListPromptIDsBetween(dbc dbctx.Context, deviceID, since, before string) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.DailyPrompt{}).
		Where("device_id = ? AND for_date >= ? AND for_date < ?", deviceID, since, before).
		Distinct().
		Pluck("prompt_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *dailyPromptRepo) DeleteByDeviceAndDate(dbc dbctx.Context, deviceID, forDate string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("device_id = ? AND for_date = ?", deviceID, forDate).
		Delete(&types.DailyPrompt{})
	return res.RowsAffected, res.Error
}

func (r *dailyPromptRepo) DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("device_id = ?", deviceID).Delete(&types.DailyPrompt{})
	return res.RowsAffected, res.Error
}

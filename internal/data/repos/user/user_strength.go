package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type UserStrengthRepo interface {
	// Replace deletes the profile's strengths and inserts themeIDs as ranks 1..n.
	// Callers run it inside a transaction.
	Replace(dbc dbctx.Context, profileID uuid.UUID, themeIDs []uuid.UUID) ([]*types.UserStrength, error)
	ListByProfileID(dbc dbctx.Context, profileID uuid.UUID) ([]*types.UserStrength, error)
	// ListByDeviceID returns strengths ordered by rank with Theme preloaded.
	ListByDeviceID(dbc dbctx.Context, deviceID string) ([]*types.UserStrength, error)
	DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error)
}

type userStrengthRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStrengthRepo(db *gorm.DB, baseLog *logger.Logger) UserStrengthRepo {
	return &userStrengthRepo{db: db, log: baseLog.With("repo", "UserStrengthRepo")}
}

func (r *userStrengthRepo) Replace(dbc dbctx.Context, profileID uuid.UUID, themeIDs []uuid.UUID) ([]*types.UserStrength, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Where("profile_id = ?", profileID).Delete(&types.UserStrength{}).Error; err != nil {
		return nil, err
	}
	rows := make([]*types.UserStrength, 0, len(themeIDs))
	for i, id := range themeIDs {
		rows = append(rows, &types.UserStrength{
			ID:        uuid.New(),
			ProfileID: profileID,
			ThemeID:   id,
			Rank:      i + 1,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userStrengthRepo) ListByProfileID(dbc dbctx.Context, profileID uuid.UUID) ([]*types.UserStrength, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserStrength
	if profileID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("profile_id = ?", profileID).
		Order("rank ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userStrengthRepo) ListByDeviceID(dbc dbctx.Context, deviceID string) ([]*types.UserStrength, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserStrength
	if err := t.WithContext(dbc.Ctx).
		Joins("JOIN profile ON profile.id = user_strengths.profile_id").
		Where("profile.device_id = ?", deviceID).
		Preload("Theme").
		Order("user_strengths.rank ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userStrengthRepo) DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	profiles := t.Session(&gorm.Session{NewDB: true}).
		Model(&types.Profile{}).
		Select("id").
		Where("device_id = ?", deviceID)
	res := t.WithContext(dbc.Ctx).
		Where("profile_id IN (?)", profiles).
		Delete(&types.UserStrength{})
	return res.RowsAffected, res.Error
}

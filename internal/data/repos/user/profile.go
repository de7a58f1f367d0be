package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

type ProfileRepo interface {
	// GetByDeviceID returns nil, nil when the device has no profile.
	GetByDeviceID(dbc dbctx.Context, deviceID string) (*types.Profile, error)
	// Ensure creates the profile for deviceID if needed and bumps updated_at.
	Ensure(dbc dbctx.Context, deviceID string) (*types.Profile, error)
	DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByDeviceID(dbc dbctx.Context, deviceID string) (*types.Profile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, nil
	}
	var row types.Profile
	if err := t.WithContext(dbc.Ctx).Where("device_id = ?", deviceID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *profileRepo) Ensure(dbc dbctx.Context, deviceID string) (*types.Profile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	now := time.Now().UTC()
	row := &types.Profile{ID: uuid.New(), DeviceID: deviceID, CreatedAt: now, UpdatedAt: now}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByDeviceID(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, deviceID)
}

func (r *profileRepo) DeleteByDeviceID(dbc dbctx.Context, deviceID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("device_id = ?", deviceID).Delete(&types.Profile{})
	return res.RowsAffected, res.Error
}

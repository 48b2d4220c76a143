package user

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type UserStatusRepo interface {
	// Ensure creates the reputation row of a user if missing and returns it.
	Ensure(dbc dbctx.Context, userID uint) (*types.UserStatus, error)
	GetByUserID(dbc dbctx.Context, userID uint) (*types.UserStatus, error)
	AddPoints(dbc dbctx.Context, userID uint, penalty, social int) error
	UpdateFields(dbc dbctx.Context, userID uint, updates map[string]interface{}) error
}

type userStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatusRepo(db *gorm.DB, baseLog *logger.Logger) UserStatusRepo {
	return &userStatusRepo{db: db, log: baseLog.With("repo", "UserStatusRepo")}
}

func (r *userStatusRepo) Ensure(dbc dbctx.Context, userID uint) (*types.UserStatus, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.UserStatus{UserID: userID, Status: "active"}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, userID)
}

func (r *userStatusRepo) GetByUserID(dbc dbctx.Context, userID uint) (*types.UserStatus, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserStatus
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userStatusRepo) AddPoints(dbc dbctx.Context, userID uint, penalty, social int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserStatus{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"penalty_points": gorm.Expr("penalty_points + ?", penalty),
			"social_points":  gorm.Expr("social_points + ?", social),
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *userStatusRepo) UpdateFields(dbc dbctx.Context, userID uint, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserStatus{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

package user

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type UserProfileRepo interface {
	Upsert(dbc dbctx.Context, row *types.UserProfile) error
	GetByUserID(dbc dbctx.Context, userID uint) (*types.UserProfile, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) Upsert(dbc dbctx.Context, row *types.UserProfile) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == 0 {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "experience", "country", "city", "language", "updated_at"}),
		}).
		Create(row).Error
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uint) (*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserProfile
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

type SubjectRepo interface {
	Create(dbc dbctx.Context, rows []*types.Subject) ([]*types.Subject, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.Subject, error)
	AddSchedule(dbc dbctx.Context, row *types.UserSchedule) error
	Book(dbc dbctx.Context, row *types.SubjectSchedule) error
	ListBookings(dbc dbctx.Context, subjectID uint) ([]*types.SubjectSchedule, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) Create(dbc dbctx.Context, rows []*types.Subject) ([]*types.Subject, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Subject{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *subjectRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.Subject, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subject
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subjectRepo) AddSchedule(dbc dbctx.Context, row *types.UserSchedule) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *subjectRepo) Book(dbc dbctx.Context, row *types.SubjectSchedule) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *subjectRepo) ListBookings(dbc dbctx.Context, subjectID uint) ([]*types.SubjectSchedule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SubjectSchedule
	if err := t.WithContext(dbc.Ctx).
		Where("subject_id = ?", subjectID).
		Order("date_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

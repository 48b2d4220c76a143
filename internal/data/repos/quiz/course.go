package quiz

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, row *types.QuizCourse) error
	GetByID(dbc dbctx.Context, id uint) (*types.QuizCourse, error)
	AddItems(dbc dbctx.Context, rows []*types.QuizCourseItem) ([]*types.QuizCourseItem, error)
	// ListItems returns the items of a course in order_index, then id order.
	ListItems(dbc dbctx.Context, courseID uint) ([]*types.QuizCourseItem, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, row *types.QuizCourse) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uint) (*types.QuizCourse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuizCourse
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseRepo) AddItems(dbc dbctx.Context, rows []*types.QuizCourseItem) ([]*types.QuizCourseItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.QuizCourseItem{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) ListItems(dbc dbctx.Context, courseID uint) ([]*types.QuizCourseItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuizCourseItem
	if err := t.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type CourseProgressRepo interface {
	Create(dbc dbctx.Context, row *types.CourseProgress) error
	GetByUserCourse(dbc dbctx.Context, userID, courseID uint) (*types.CourseProgress, error)
	LockByID(dbc dbctx.Context, id uint) (*types.CourseProgress, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return &courseProgressRepo{db: db, log: baseLog.With("repo", "CourseProgressRepo")}
}

func (r *courseProgressRepo) Create(dbc dbctx.Context, row *types.CourseProgress) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *courseProgressRepo) GetByUserCourse(dbc dbctx.Context, userID, courseID uint) (*types.CourseProgress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CourseProgress
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseProgressRepo) LockByID(dbc dbctx.Context, id uint) (*types.CourseProgress, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.CourseProgress
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *courseProgressRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.CourseProgress{}).
		Where("id = ?", id).
		Updates(updates).Error
}

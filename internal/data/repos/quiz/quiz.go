package quiz

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/quiz"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, row *types.Quiz) error
	GetByID(dbc dbctx.Context, id uint) (*types.Quiz, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Quiz, error)
	ListByStatus(dbc dbctx.Context, status quiz.Status) ([]*types.Quiz, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Quiz, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, row *types.Quiz) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if _, err := row.DecodePayload(); err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *quizRepo) first(dbc dbctx.Context, where string, arg any) (*types.Quiz, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Quiz
	if err := t.WithContext(dbc.Ctx).Where(where, arg).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uint) (*types.Quiz, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *quizRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Quiz, error) {
	return r.first(dbc, "slug = ?", slug)
}

func (r *quizRepo) ListByStatus(dbc dbctx.Context, status quiz.Status) ([]*types.Quiz, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Quiz
	if err := t.WithContext(dbc.Ctx).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) LockByID(dbc dbctx.Context, id uint) (*types.Quiz, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Quiz
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quizRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == 0 || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Quiz{}).
		Where("id = ?", id).
		Updates(updates).Error
}

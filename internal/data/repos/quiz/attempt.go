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

type QuizProgressRepo interface {
	Create(dbc dbctx.Context, row *types.QuizProgress) error
	GetByID(dbc dbctx.Context, id uint) (*types.QuizProgress, error)
	// CountAttempts counts every attempt of the user at the quiz, whatever its status.
	CountAttempts(dbc dbctx.Context, userID, quizID uint) (int64, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.QuizProgress, error)
	LockByID(dbc dbctx.Context, id uint) (*types.QuizProgress, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type quizProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizProgressRepo(db *gorm.DB, baseLog *logger.Logger) QuizProgressRepo {
	return &quizProgressRepo{db: db, log: baseLog.With("repo", "QuizProgressRepo")}
}

func (r *quizProgressRepo) Create(dbc dbctx.Context, row *types.QuizProgress) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.Status == "" {
		row.Status = quiz.AttemptInProgress
	}
	if row.StartedAt.IsZero() {
		row.StartedAt = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *quizProgressRepo) GetByID(dbc dbctx.Context, id uint) (*types.QuizProgress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuizProgress
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *quizProgressRepo) CountAttempts(dbc dbctx.Context, userID, quizID uint) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.QuizProgress{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *quizProgressRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.QuizProgress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuizProgress
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizProgressRepo) LockByID(dbc dbctx.Context, id uint) (*types.QuizProgress, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.QuizProgress
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quizProgressRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
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
		Model(&types.QuizProgress{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type QuizResultRepo interface {
	Create(dbc dbctx.Context, row *types.UserQuizResult) error
	GetByAttemptID(dbc dbctx.Context, attemptID uint) (*types.UserQuizResult, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.UserQuizResult, error)
	BestForQuiz(dbc dbctx.Context, userID, quizID uint) (*types.UserQuizResult, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{db: db, log: baseLog.With("repo", "QuizResultRepo")}
}

func (r *quizResultRepo) Create(dbc dbctx.Context, row *types.UserQuizResult) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *quizResultRepo) GetByAttemptID(dbc dbctx.Context, attemptID uint) (*types.UserQuizResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserQuizResult
	if err := t.WithContext(dbc.Ctx).Where("attempt_id = ?", attemptID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *quizResultRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.UserQuizResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserQuizResult
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizResultRepo) BestForQuiz(dbc dbctx.Context, userID, quizID uint) (*types.UserQuizResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserQuizResult
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("percentage DESC, completed_at ASC, id ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

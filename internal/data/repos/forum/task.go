package forum

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/forum"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

// TaskRepo stores generation task state. Processing itself happens elsewhere.
type TaskRepo interface {
	Create(dbc dbctx.Context, row *types.Task) error
	GetByTaskID(dbc dbctx.Context, taskID string) (*types.Task, error)
	ListByStatus(dbc dbctx.Context, statuses []forum.TaskStatus, limit int) ([]*types.Task, error)

	// ClaimNext moves the oldest runnable task to processing and bumps its attempt counter.
	ClaimNext(dbc dbctx.Context) (*types.Task, error)
	Complete(dbc dbctx.Context, taskID string, result string) error
	Fail(dbc dbctx.Context, taskID string, cause string) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(dbc dbctx.Context, row *types.Task) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.Status == "" {
		row.Status = forum.TaskStatusPending
	}
	if row.MaxAttempts == 0 {
		row.MaxAttempts = 3
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *taskRepo) GetByTaskID(dbc dbctx.Context, taskID string) (*types.Task, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Task
	if err := t.WithContext(dbc.Ctx).Where("task_id = ?", taskID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *taskRepo) ListByStatus(dbc dbctx.Context, statuses []forum.TaskStatus, limit int) ([]*types.Task, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Task
	if len(statuses) == 0 {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("status IN ?", statuses).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) ClaimNext(dbc dbctx.Context) (*types.Task, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	now := time.Now().UTC()
	var claimed *types.Task
	err := t.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		var task types.Task
		qErr := txx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(status = ? OR status = ?) AND attempts < max_attempts", forum.TaskStatusPending, forum.TaskStatusFailed).
			Order("created_at ASC, id ASC").
			First(&task).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		if err := txx.Model(&types.Task{}).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"status":     forum.TaskStatusProcessing,
				"attempts":   gorm.Expr("attempts + 1"),
				"started_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		task.Status = forum.TaskStatusProcessing
		task.Attempts++
		task.StartedAt = &now
		claimed = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *taskRepo) Complete(dbc dbctx.Context, taskID string, result string) error {
	now := time.Now().UTC()
	return r.finish(dbc, taskID, map[string]interface{}{
		"status":       forum.TaskStatusCompleted,
		"result":       result,
		"completed_at": now,
		"updated_at":   now,
	})
}

func (r *taskRepo) Fail(dbc dbctx.Context, taskID string, cause string) error {
	return r.finish(dbc, taskID, map[string]interface{}{
		"status":        forum.TaskStatusFailed,
		"error_message": cause,
		"updated_at":    time.Now().UTC(),
	})
}

func (r *taskRepo) finish(dbc dbctx.Context, taskID string, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Task{}).
		Where("task_id = ? AND status = ?", taskID, forum.TaskStatusProcessing).
		Updates(updates).Error
}

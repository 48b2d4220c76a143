package forum

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type TopicRepo interface {
	Create(dbc dbctx.Context, rows []*types.Topic) ([]*types.Topic, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Topic, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.Topic, error)
	ListByCategory(dbc dbctx.Context, categoryID uint) ([]*types.Topic, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Topic, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) Create(dbc dbctx.Context, rows []*types.Topic) ([]*types.Topic, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Topic{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, id uint) (*types.Topic, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *topicRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.Topic, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) ListByCategory(dbc dbctx.Context, categoryID uint) ([]*types.Topic, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if err := t.WithContext(dbc.Ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) LockByID(dbc dbctx.Context, id uint) (*types.Topic, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Topic
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *topicRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
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
		Model(&types.Topic{}).
		Where("id = ?", id).
		Updates(updates).Error
}

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

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)

	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Message, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Message, error)

	// ListByTopic returns the messages of a topic ordered by created_at, then id.
	ListByTopic(dbc dbctx.Context, topicID uint) ([]*types.Message, error)
	ListReplies(dbc dbctx.Context, parentID uint) ([]*types.Message, error)
	// ParentIDs returns id -> parent_id for every message of a topic.
	ParentIDs(dbc dbctx.Context, topicID uint) (map[uint]*uint, error)
	CountByTopic(dbc dbctx.Context, topicID uint) (int64, error)

	LockByID(dbc dbctx.Context, id uint) (*types.Message, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Message, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Message
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) GetByID(dbc dbctx.Context, id uint) (*types.Message, error) {
	if id == 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *messageRepo) ListByTopic(dbc dbctx.Context, topicID uint) ([]*types.Message, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Message
	if err := t.WithContext(dbc.Ctx).
		Where("topic_id = ?", topicID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) ListReplies(dbc dbctx.Context, parentID uint) ([]*types.Message, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Message
	if err := t.WithContext(dbc.Ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) ParentIDs(dbc dbctx.Context, topicID uint) (map[uint]*uint, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []struct {
		ID       uint
		ParentID *uint
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Select("id", "parent_id").
		Where("topic_id = ?", topicID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]*uint, len(rows))
	for _, row := range rows {
		out[row.ID] = row.ParentID
	}
	return out, nil
}

func (r *messageRepo) CountByTopic(dbc dbctx.Context, topicID uint) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("topic_id = ?", topicID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *messageRepo) LockByID(dbc dbctx.Context, id uint) (*types.Message, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Message
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *messageRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
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
		Model(&types.Message{}).
		Where("id = ?", id).
		Updates(updates).Error
}

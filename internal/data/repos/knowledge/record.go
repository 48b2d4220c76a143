package knowledge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type KnowledgeRecordRepo interface {
	Create(dbc dbctx.Context, row *types.UserKnowledgeRecord) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserKnowledgeRecord, error)
	GetByUserID(dbc dbctx.Context, userID uint) (*types.UserKnowledgeRecord, error)
	GetByCharacterID(dbc dbctx.Context, characterID string) (*types.UserKnowledgeRecord, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type knowledgeRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnowledgeRecordRepo(db *gorm.DB, baseLog *logger.Logger) KnowledgeRecordRepo {
	return &knowledgeRecordRepo{db: db, log: baseLog.With("repo", "KnowledgeRecordRepo")}
}

func (r *knowledgeRecordRepo) Create(dbc dbctx.Context, row *types.UserKnowledgeRecord) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *knowledgeRecordRepo) first(dbc dbctx.Context, where string, arg any) (*types.UserKnowledgeRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserKnowledgeRecord
	if err := t.WithContext(dbc.Ctx).Where(where, arg).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *knowledgeRecordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserKnowledgeRecord, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *knowledgeRecordRepo) GetByUserID(dbc dbctx.Context, userID uint) (*types.UserKnowledgeRecord, error) {
	return r.first(dbc, "user_id = ?", userID)
}

func (r *knowledgeRecordRepo) GetByCharacterID(dbc dbctx.Context, characterID string) (*types.UserKnowledgeRecord, error) {
	if characterID == "" {
		return nil, nil
	}
	return r.first(dbc, "character_id = ?", characterID)
}

func (r *knowledgeRecordRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserKnowledgeRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type MessageExampleRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserMessageExample) ([]*types.UserMessageExample, error)
	GetByID(dbc dbctx.Context, id uint) (*types.UserMessageExample, error)
	ListByProfile(dbc dbctx.Context, profileID uuid.UUID) ([]*types.UserMessageExample, error)
	ListByThread(dbc dbctx.Context, profileID uuid.UUID, threadID string) ([]*types.UserMessageExample, error)
}

type messageExampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageExampleRepo(db *gorm.DB, baseLog *logger.Logger) MessageExampleRepo {
	return &messageExampleRepo{db: db, log: baseLog.With("repo", "MessageExampleRepo")}
}

func (r *messageExampleRepo) Create(dbc dbctx.Context, rows []*types.UserMessageExample) ([]*types.UserMessageExample, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.UserMessageExample{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageExampleRepo) GetByID(dbc dbctx.Context, id uint) (*types.UserMessageExample, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserMessageExample
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *messageExampleRepo) ListByProfile(dbc dbctx.Context, profileID uuid.UUID) ([]*types.UserMessageExample, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserMessageExample
	if err := t.WithContext(dbc.Ctx).
		Where("profile_id = ?", profileID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageExampleRepo) ListByThread(dbc dbctx.Context, profileID uuid.UUID, threadID string) ([]*types.UserMessageExample, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserMessageExample
	if err := t.WithContext(dbc.Ctx).
		Where("profile_id = ? AND thread_id = ?", profileID, threadID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package knowledge

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type MessageEmbeddingRepo interface {
	Create(dbc dbctx.Context, row *types.MessageEmbedding) error
	GetByID(dbc dbctx.Context, id uint) (*types.MessageEmbedding, error)
	ListByOwner(dbc dbctx.Context, owner knowledge.OwnerRef) ([]*types.MessageEmbedding, error)

	// ListByOwnerKind pages through the embeddings of one owner kind by id,
	// returning rows with id > afterID.
	ListByOwnerKind(dbc dbctx.Context, kind knowledge.OwnerKind, afterID uint, limit int) ([]types.OwnedVector, error)

	// DeleteByOwner removes every embedding of owner with a single delete on the owner's column.
	DeleteByOwner(dbc dbctx.Context, owner knowledge.OwnerRef) (int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type messageEmbeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) MessageEmbeddingRepo {
	return &messageEmbeddingRepo{db: db, log: baseLog.With("repo", "MessageEmbeddingRepo")}
}

func (r *messageEmbeddingRepo) Create(dbc dbctx.Context, row *types.MessageEmbedding) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *messageEmbeddingRepo) GetByID(dbc dbctx.Context, id uint) (*types.MessageEmbedding, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MessageEmbedding
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *messageEmbeddingRepo) ListByOwner(dbc dbctx.Context, owner knowledge.OwnerRef) ([]*types.MessageEmbedding, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if !owner.Valid() {
		return nil, knowledge.ErrInvalidOwner
	}
	var out []*types.MessageEmbedding
	if err := t.WithContext(dbc.Ctx).
		Where(owner.Kind().Column()+" = ?", owner.ID()).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageEmbeddingRepo) ListByOwnerKind(dbc dbctx.Context, kind knowledge.OwnerKind, afterID uint, limit int) ([]types.OwnedVector, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	col := kind.Column()
	if col == "" {
		return nil, fmt.Errorf("unknown owner kind %q", kind)
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []struct {
		ID        uint
		Embedding pgvector.Vector
		Content   string
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.MessageEmbedding{}).
		Select("id", "embedding", "content").
		Where(col+" IS NOT NULL AND id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.OwnedVector, len(rows))
	for i, row := range rows {
		out[i] = types.OwnedVector{ID: row.ID, Embedding: row.Embedding, Content: row.Content}
	}
	return out, nil
}

func (r *messageEmbeddingRepo) DeleteByOwner(dbc dbctx.Context, owner knowledge.OwnerRef) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if !owner.Valid() {
		return 0, knowledge.ErrInvalidOwner
	}
	res := t.WithContext(dbc.Ctx).
		Where(owner.Kind().Column()+" = ?", owner.ID()).
		Delete(&types.MessageEmbedding{})
	return res.RowsAffected, res.Error
}

func (r *messageEmbeddingRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.MessageEmbedding{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// EmbeddingRepo stores vectors for the general RAG corpus.
type EmbeddingRepo interface {
	Create(dbc dbctx.Context, rows []*types.Embedding) ([]*types.Embedding, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Embedding, error)
	ListAfter(dbc dbctx.Context, afterID uint, limit int) ([]*types.Embedding, error)
}

type embeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	return &embeddingRepo{db: db, log: baseLog.With("repo", "EmbeddingRepo")}
}

func (r *embeddingRepo) Create(dbc dbctx.Context, rows []*types.Embedding) ([]*types.Embedding, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Embedding{}, nil
	}
	for _, row := range rows {
		if len(row.Embedding.Slice()) == 0 {
			return nil, fmt.Errorf("embedding %q has no vector", row.Content)
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *embeddingRepo) GetByID(dbc dbctx.Context, id uint) (*types.Embedding, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Embedding
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *embeddingRepo) ListAfter(dbc dbctx.Context, afterID uint, limit int) ([]*types.Embedding, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.Embedding
	if err := t.WithContext(dbc.Ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

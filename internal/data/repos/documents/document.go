package documents

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Document) ([]*types.Document, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error)
	GetByDocID(dbc dbctx.Context, docID uuid.UUID) (*types.Document, error)

	ListByUser(dbc dbctx.Context, userID uint) ([]*types.Document, error)
	ListRoots(dbc dbctx.Context, userID uint) ([]*types.Document, error)
	// ListTreeChildren returns documents whose parent_id is one of parentIDs, ordered by id.
	ListTreeChildren(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Document, error)
	TreeChildIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	Count(dbc dbctx.Context) (int64, error)

	// LockByIDs locks rows in id order so concurrent callers acquire them consistently.
	LockByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Document, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(dbc dbctx.Context, rows []*types.Document) ([]*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Document{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *documentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *documentRepo) GetByDocID(dbc dbctx.Context, docID uuid.UUID) (*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if err := t.WithContext(dbc.Ctx).Where("doc_id = ?", docID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *documentRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) ListRoots(dbc dbctx.Context, userID uint) ([]*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND parent_id IS NULL", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) ListTreeChildren(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Document, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) TreeChildIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Document{}).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Document{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *documentRepo) LockByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Document, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByIDs requires dbc.Tx")
	}
	var out []*types.Document
	if len(ids) == 0 {
		return out, nil
	}
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

package documents

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

// DocumentEdgeRepo reads the graph hierarchy. Edges are written only by the
// document graph aggregate, which checks acyclicity first.
type DocumentEdgeRepo interface {
	Exists(dbc dbctx.Context, parentID, childID uuid.UUID) (bool, error)
	ChildIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	ParentIDs(dbc dbctx.Context, childIDs []uuid.UUID) ([]uuid.UUID, error)
	ListTouching(dbc dbctx.Context, ids []uuid.UUID) ([]*types.DocumentChild, error)
}

type documentEdgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentEdgeRepo(db *gorm.DB, baseLog *logger.Logger) DocumentEdgeRepo {
	return &documentEdgeRepo{db: db, log: baseLog.With("repo", "DocumentEdgeRepo")}
}

func (r *documentEdgeRepo) Exists(dbc dbctx.Context, parentID, childID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.DocumentChild{}).
		Where("parent_id = ? AND child_id = ?", parentID, childID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *documentEdgeRepo) ChildIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.pluck(dbc, "child_id", "parent_id", parentIDs)
}

func (r *documentEdgeRepo) ParentIDs(dbc dbctx.Context, childIDs []uuid.UUID) ([]uuid.UUID, error) {
	return r.pluck(dbc, "parent_id", "child_id", childIDs)
}

func (r *documentEdgeRepo) pluck(dbc dbctx.Context, col, by string, ids []uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.DocumentChild{}).
		Where(by+" IN ?", ids).
		Order(col+" ASC").
		Distinct().
		Pluck(col, &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentEdgeRepo) ListTouching(dbc dbctx.Context, ids []uuid.UUID) ([]*types.DocumentChild, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DocumentChild
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("parent_id IN ? OR child_id IN ?", ids, ids).
		Order("parent_id ASC, child_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

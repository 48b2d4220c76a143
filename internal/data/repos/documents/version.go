package documents

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

// DocumentVersionRepo is append-only.
type DocumentVersionRepo interface {
	Append(dbc dbctx.Context, row *types.DocumentVersion) error
	ListByDocument(dbc dbctx.Context, documentID uuid.UUID) ([]*types.DocumentVersion, error)
	Latest(dbc dbctx.Context, documentID uuid.UUID) (*types.DocumentVersion, error)
}

type documentVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentVersionRepo(db *gorm.DB, baseLog *logger.Logger) DocumentVersionRepo {
	return &documentVersionRepo{db: db, log: baseLog.With("repo", "DocumentVersionRepo")}
}

func (r *documentVersionRepo) Append(dbc dbctx.Context, row *types.DocumentVersion) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *documentVersionRepo) ListByDocument(dbc dbctx.Context, documentID uuid.UUID) ([]*types.DocumentVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DocumentVersion
	if err := t.WithContext(dbc.Ctx).
		Where("document_id = ?", documentID).
		Order("version_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentVersionRepo) Latest(dbc dbctx.Context, documentID uuid.UUID) (*types.DocumentVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DocumentVersion
	if err := t.WithContext(dbc.Ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

package forum

import (
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Category, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Category, error)
	ListActive(dbc dbctx.Context) ([]*types.Category, error)

	CreateSubcategories(dbc dbctx.Context, rows []*types.Subcategory) ([]*types.Subcategory, error)
	GetSubcategoryByID(dbc dbctx.Context, id uint) (*types.Subcategory, error)
	ListSubcategories(dbc dbctx.Context, categoryID uint) ([]*types.Subcategory, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Category{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uint) (*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Category
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *categoryRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Category
	if err := t.WithContext(dbc.Ctx).Where("slug = ?", slug).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *categoryRepo) ListActive(dbc dbctx.Context) ([]*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Category
	if err := t.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) CreateSubcategories(dbc dbctx.Context, rows []*types.Subcategory) ([]*types.Subcategory, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Subcategory{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) GetSubcategoryByID(dbc dbctx.Context, id uint) (*types.Subcategory, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subcategory
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *categoryRepo) ListSubcategories(dbc dbctx.Context, categoryID uint) ([]*types.Subcategory, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subcategory
	if err := t.WithContext(dbc.Ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

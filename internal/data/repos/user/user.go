package user

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error)

	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	ListByRole(dbc dbctx.Context, role types.Role) ([]*types.User, error)

	// Taken reports which of username and email are already registered.
	Taken(dbc dbctx.Context, username, email string) (usernameTaken bool, emailTaken bool, err error)
	LockByID(dbc dbctx.Context, id uint) (*types.User, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.User{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.User
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
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

func (r *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var out []*types.User
	if err := t.WithContext(dbc.Ctx).Where("username = ?", username).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) ListByRole(dbc dbctx.Context, role types.Role) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.User
	if err := t.WithContext(dbc.Ctx).
		Where("role = ?", role).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) Taken(dbc dbctx.Context, username, email string) (bool, bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []struct {
		Username string
		Email    string
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Select("username", "email").
		Where("username = ? OR email = ?", username, email).
		Find(&rows).Error; err != nil {
		return false, false, err
	}
	var u, e bool
	for _, row := range rows {
		u = u || row.Username == username
		e = e || row.Email == email
	}
	return u, e, nil
}

func (r *userRepo) LockByID(dbc dbctx.Context, id uint) (*types.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.User
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == 0 {
		return nil
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

package mentor

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/mentor"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type MentorMenteeRepo interface {
	Create(dbc dbctx.Context, row *types.MentorMentee) error
	GetByID(dbc dbctx.Context, id uint) (*types.MentorMentee, error)
	GetByPair(dbc dbctx.Context, mentorID, menteeID uint) (*types.MentorMentee, error)
	ListByMentor(dbc dbctx.Context, mentorID uint, statuses []mentor.Status) ([]*types.MentorMentee, error)
	ListByMentee(dbc dbctx.Context, menteeID uint, statuses []mentor.Status) ([]*types.MentorMentee, error)
	LockByID(dbc dbctx.Context, id uint) (*types.MentorMentee, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type mentorMenteeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMentorMenteeRepo(db *gorm.DB, baseLog *logger.Logger) MentorMenteeRepo {
	return &mentorMenteeRepo{db: db, log: baseLog.With("repo", "MentorMenteeRepo")}
}

func (r *mentorMenteeRepo) Create(dbc dbctx.Context, row *types.MentorMentee) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *mentorMenteeRepo) GetByID(dbc dbctx.Context, id uint) (*types.MentorMentee, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MentorMentee
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mentorMenteeRepo) GetByPair(dbc dbctx.Context, mentorID, menteeID uint) (*types.MentorMentee, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MentorMentee
	if err := t.WithContext(dbc.Ctx).
		Where("mentor_id = ? AND mentee_id = ?", mentorID, menteeID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mentorMenteeRepo) ListByMentor(dbc dbctx.Context, mentorID uint, statuses []mentor.Status) ([]*types.MentorMentee, error) {
	return r.list(dbc, "mentor_id", mentorID, statuses)
}

func (r *mentorMenteeRepo) ListByMentee(dbc dbctx.Context, menteeID uint, statuses []mentor.Status) ([]*types.MentorMentee, error) {
	return r.list(dbc, "mentee_id", menteeID, statuses)
}

func (r *mentorMenteeRepo) list(dbc dbctx.Context, col string, id uint, statuses []mentor.Status) ([]*types.MentorMentee, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Where(col+" = ?", id)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []*types.MentorMentee
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mentorMenteeRepo) LockByID(dbc dbctx.Context, id uint) (*types.MentorMentee, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.MentorMentee
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *mentorMenteeRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
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
		Model(&types.MentorMentee{}).
		Where("id = ?", id).
		Updates(updates).Error
}

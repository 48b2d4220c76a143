// Package cascade deletes rows together with everything that depends on them,
// following schema.Rules inside the caller's transaction.
package cascade

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/schema"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

// ErrRestricted is returned when a restrict rule still has dependent rows.
var ErrRestricted = errors.New("delete restricted by dependent rows")

// Report counts rows touched per table.
type Report struct {
	Deleted map[string]int64
	Nulled  map[string]int64
}

func newReport() *Report {
	return &Report{Deleted: map[string]int64{}, Nulled: map[string]int64{}}
}

// Total returns the number of deleted rows across all tables.
func (r *Report) Total() int64 {
	var n int64
	for _, v := range r.Deleted {
		n += v
	}
	return n
}

type Engine struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, log *logger.Logger) *Engine {
	return &Engine{db: db, log: log.With("component", "CascadeEngine")}
}

// Delete removes the rows of table with the given primary keys. Dependents are
// handled depth-first before their parent row: cascade rules recurse, set-null
// rules clear the reference and restrict rules abort. Leaf dependents are
// removed with one DELETE per rule keyed on that rule's column only.
//
// The caller owns the transaction; any error leaves it for rollback.
func (e *Engine) Delete(dbc dbctx.Context, table string, ids []any) (*Report, error) {
	if _, ok := schema.Tables[table]; !ok {
		return nil, fmt.Errorf("cascade: unknown table %q", table)
	}
	if schema.Tables[table] == schema.KeyNone {
		return nil, fmt.Errorf("cascade: table %q has no primary key", table)
	}
	rep := newReport()
	w := &walk{engine: e, dbc: dbc, report: rep, visited: map[string]map[string]bool{}}
	if err := w.delete(table, ids); err != nil {
		return rep, err
	}
	e.log.Debug("cascade delete", "table", table, "roots", len(ids), "deleted", rep.Total())
	return rep, nil
}

// DeleteUint is Delete for tables keyed by uint.
func (e *Engine) DeleteUint(dbc dbctx.Context, table string, ids ...uint) (*Report, error) {
	return e.Delete(dbc, table, uintsToAny(ids))
}

// DeleteUUID is Delete for tables keyed by uuid.
func (e *Engine) DeleteUUID(dbc dbctx.Context, table string, ids ...uuid.UUID) (*Report, error) {
	return e.Delete(dbc, table, uuidsToAny(ids))
}

type walk struct {
	engine  *Engine
	dbc     dbctx.Context
	report  *Report
	visited map[string]map[string]bool
}

func (w *walk) tx() *gorm.DB {
	return w.dbc.DB(w.engine.db)
}

// claim filters ids already scheduled for deletion and marks the rest.
func (w *walk) claim(table string, ids []any) []any {
	seen := w.visited[table]
	if seen == nil {
		seen = map[string]bool{}
		w.visited[table] = seen
	}
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		k := fmt.Sprint(id)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, id)
	}
	return out
}

func (w *walk) delete(table string, ids []any) error {
	ids = w.claim(table, ids)
	if len(ids) == 0 {
		return nil
	}
	for _, rule := range schema.DependentsOf(table) {
		if err := w.apply(rule, ids); err != nil {
			return err
		}
	}
	res := w.tx().Table(table).Where("id IN ?", ids).Delete(nil)
	if res.Error != nil {
		return fmt.Errorf("cascade: delete %s: %w", table, res.Error)
	}
	w.report.Deleted[table] += res.RowsAffected
	return nil
}

func (w *walk) apply(rule schema.Rule, parentIDs []any) error {
	switch rule.Policy {
	case schema.Restrict:
		var n int64
		if err := w.tx().Table(rule.Child).Where(rule.Column+" IN ?", parentIDs).Count(&n).Error; err != nil {
			return fmt.Errorf("cascade: check %s: %w", rule, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %d row(s) in %s.%s", ErrRestricted, n, rule.Child, rule.Column)
		}
		return nil

	case schema.SetNull:
		res := w.tx().Table(rule.Child).Where(rule.Column+" IN ?", parentIDs).Update(rule.Column, gorm.Expr("NULL"))
		if res.Error != nil {
			return fmt.Errorf("cascade: null %s: %w", rule, res.Error)
		}
		w.report.Nulled[rule.Child] += res.RowsAffected
		return nil

	case schema.Cascade:
		if schema.IsLeaf(rule.Child) {
			res := w.tx().Table(rule.Child).Where(rule.Column+" IN ?", parentIDs).Delete(nil)
			if res.Error != nil {
				return fmt.Errorf("cascade: delete %s: %w", rule, res.Error)
			}
			w.report.Deleted[rule.Child] += res.RowsAffected
			return nil
		}
		childIDs, err := w.selectIDs(rule, parentIDs)
		if err != nil {
			return err
		}
		return w.delete(rule.Child, childIDs)
	}
	return fmt.Errorf("cascade: unknown policy in %s", rule)
}

func (w *walk) selectIDs(rule schema.Rule, parentIDs []any) ([]any, error) {
	q := w.tx().Table(rule.Child).Where(rule.Column+" IN ?", parentIDs).Order("id")
	switch schema.Tables[rule.Child] {
	case schema.KeyUUID:
		var ids []uuid.UUID
		if err := q.Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("cascade: collect %s: %w", rule, err)
		}
		return uuidsToAny(ids), nil
	case schema.KeyUint:
		var ids []uint
		if err := q.Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("cascade: collect %s: %w", rule, err)
		}
		return uintsToAny(ids), nil
	}
	return nil, fmt.Errorf("cascade: %s has no key to recurse on", rule.Child)
}

func uintsToAny(ids []uint) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func uuidsToAny(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

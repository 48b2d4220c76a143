package aggregates

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/forumcore/internal/data/cascade"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

// cascadeDelete removes one row through the cascade engine and reports what it touched.
func cascadeDelete(dbc dbctx.Context, deps BaseDeps, table string, id any) (domainagg.DeleteResult, error) {
	rep, err := deps.Cascade.Delete(dbc, table, []any{id})
	if err != nil {
		return domainagg.DeleteResult{}, err
	}
	return toDeleteResult(rep), nil
}

func toDeleteResult(rep *cascade.Report) domainagg.DeleteResult {
	if rep == nil {
		return domainagg.DeleteResult{Deleted: map[string]int64{}, Nulled: map[string]int64{}}
	}
	return domainagg.DeleteResult{Deleted: rep.Deleted, Nulled: rep.Nulled}
}

// observeCascade reports a committed cascade to the hooks.
func observeCascade(deps BaseDeps, op string, res domainagg.DeleteResult, err error) {
	if err != nil || deps.Hooks == nil {
		return
	}
	deps.Hooks.ObserveCascade(op, &cascade.Report{Deleted: res.Deleted, Nulled: res.Nulled})
}

func formatID(id any) string {
	switch v := id.(type) {
	case uuid.UUID:
		return v.String()
	case *uint:
		if v == nil {
			return "<nil>"
		}
		return fmt.Sprint(*v)
	}
	return fmt.Sprint(id)
}

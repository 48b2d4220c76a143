package aggregates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

// TxRunner opens the transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db   *gorm.DB
	opts []*sql.TxOptions
}

// NewGormTxRunner runs writes at READ COMMITTED on Postgres so row locks taken
// during a graph walk see rows committed by the transaction that held them.
// On a db that is already a transaction GORM opens a savepoint instead.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	r := &gormTxRunner{db: db}
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		r.opts = []*sql.TxOptions{{Isolation: sql.LevelReadCommitted}}
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	}, r.opts...)
}

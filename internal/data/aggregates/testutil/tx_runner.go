package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/aggregates"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

// InjectedTxRunner fails a transaction at a chosen step. With DB set the body
// runs in a real (nested) transaction that is rolled back on any failure, so
// tests can assert nothing the body wrote survived.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.DB == nil {
		err = body(dbctx.Context{Ctx: ctx})
	} else {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return body(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}

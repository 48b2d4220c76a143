package aggregates_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/aggregates"
	aggtest "github.com/yungbote/forumcore/internal/data/aggregates/testutil"
	"github.com/yungbote/forumcore/internal/data/cascade"
	"github.com/yungbote/forumcore/internal/data/repos"
	repotest "github.com/yungbote/forumcore/internal/data/repos/testutil"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

// harness wires every aggregate onto one rolled-back test transaction. Each
// aggregate write opens a savepoint inside it.
type harness struct {
	ctx   context.Context
	tx    *gorm.DB
	log   *logger.Logger
	hooks *aggtest.HooksRecorder
	base  aggregates.BaseDeps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	hooks := &aggtest.HooksRecorder{}
	return &harness{
		ctx:   context.Background(),
		tx:    tx,
		log:   log,
		hooks: hooks,
		base: aggregates.BaseDeps{
			DB:       tx,
			Log:      log,
			Runner:   aggregates.NewGormTxRunner(tx),
			Hooks:    hooks,
			CASGuard: aggregates.NewCASGuard(tx),
			Cascade:  cascade.New(tx, log),
		},
	}
}

func (h *harness) account() domainagg.AccountAggregate {
	return aggregates.NewAccountAggregate(aggregates.AccountAggregateDeps{
		Base:   h.base,
		Users:  repos.NewUserRepo(h.tx, h.log),
		Status: repos.NewUserStatusRepo(h.tx, h.log),
	})
}

func (h *harness) forum() domainagg.ForumAggregate {
	return aggregates.NewForumAggregate(aggregates.ForumAggregateDeps{
		Base:       h.base,
		Users:      repos.NewUserRepo(h.tx, h.log),
		Categories: repos.NewCategoryRepo(h.tx, h.log),
		Topics:     repos.NewTopicRepo(h.tx, h.log),
		Messages:   repos.NewMessageRepo(h.tx, h.log),
	})
}

func (h *harness) knowledge() domainagg.KnowledgeAggregate {
	return aggregates.NewKnowledgeAggregate(aggregates.KnowledgeAggregateDeps{
		Base:       h.base,
		Topics:     repos.NewTopicRepo(h.tx, h.log),
		Messages:   repos.NewMessageRepo(h.tx, h.log),
		Records:    repos.NewKnowledgeRecordRepo(h.tx, h.log),
		Examples:   repos.NewMessageExampleRepo(h.tx, h.log),
		Embeddings: repos.NewMessageEmbeddingRepo(h.tx, h.log),
	})
}

func (h *harness) documents() domainagg.DocumentGraphAggregate {
	return aggregates.NewDocumentGraphAggregate(aggregates.DocumentGraphAggregateDeps{
		Base:      h.base,
		Users:     repos.NewUserRepo(h.tx, h.log),
		Documents: repos.NewDocumentRepo(h.tx, h.log),
		Edges:     repos.NewDocumentEdgeRepo(h.tx, h.log),
		Versions:  repos.NewDocumentVersionRepo(h.tx, h.log),
	})
}

func (h *harness) quizAttempts() domainagg.QuizAttemptAggregate {
	return aggregates.NewQuizAttemptAggregate(aggregates.QuizAttemptAggregateDeps{
		Base:     h.base,
		Users:    repos.NewUserRepo(h.tx, h.log),
		Quizzes:  repos.NewQuizRepo(h.tx, h.log),
		Attempts: repos.NewQuizProgressRepo(h.tx, h.log),
		Results:  repos.NewQuizResultRepo(h.tx, h.log),
	})
}

func (h *harness) courses() domainagg.CourseProgressAggregate {
	return aggregates.NewCourseProgressAggregate(aggregates.CourseProgressAggregateDeps{
		Base:     h.base,
		Users:    repos.NewUserRepo(h.tx, h.log),
		Courses:  repos.NewCourseRepo(h.tx, h.log),
		Progress: repos.NewCourseProgressRepo(h.tx, h.log),
	})
}

func (h *harness) mentorship() domainagg.MentorshipAggregate {
	return aggregates.NewMentorshipAggregate(aggregates.MentorshipAggregateDeps{
		Base:    h.base,
		Users:   repos.NewUserRepo(h.tx, h.log),
		Mentors: repos.NewMentorMenteeRepo(h.tx, h.log),
	})
}

func (h *harness) count(t *testing.T, table, where string, args ...any) int64 {
	t.Helper()
	return repotest.Count(t, h.tx, table, where, args...)
}

func (h *harness) dbc() dbctx.Context {
	return dbctx.Context{Ctx: h.ctx, Tx: h.tx}
}

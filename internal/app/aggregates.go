package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/aggregates"
	"github.com/yungbote/forumcore/internal/data/cascade"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/observability"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type Aggregates struct {
	Account        domainagg.AccountAggregate
	Forum          domainagg.ForumAggregate
	Knowledge      domainagg.KnowledgeAggregate
	Documents      domainagg.DocumentGraphAggregate
	QuizAttempt    domainagg.QuizAttemptAggregate
	CourseProgress domainagg.CourseProgressAggregate
	Mentorship     domainagg.MentorshipAggregate
}

func wireAggregates(db *gorm.DB, log *logger.Logger, r Repos, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:       db,
		Log:      log.With("component", "aggregates"),
		Runner:   aggregates.NewGormTxRunner(db),
		Hooks:    aggregates.NewObservabilityHooks(metrics),
		CASGuard: aggregates.NewCASGuard(db),
		Cascade:  cascade.New(db, log),
		Tracer:   observability.Tracer(),
	}
	return Aggregates{
		Account: aggregates.NewAccountAggregate(aggregates.AccountAggregateDeps{
			Base:   base,
			Users:  r.User,
			Status: r.UserStatus,
		}),
		Forum: aggregates.NewForumAggregate(aggregates.ForumAggregateDeps{
			Base:       base,
			Users:      r.User,
			Categories: r.Category,
			Topics:     r.Topic,
			Messages:   r.Message,
		}),
		Knowledge: aggregates.NewKnowledgeAggregate(aggregates.KnowledgeAggregateDeps{
			Base:       base,
			Topics:     r.Topic,
			Messages:   r.Message,
			Records:    r.KnowledgeRecord,
			Examples:   r.MessageExample,
			Embeddings: r.MessageEmbedding,
		}),
		Documents: aggregates.NewDocumentGraphAggregate(aggregates.DocumentGraphAggregateDeps{
			Base:      base,
			Users:     r.User,
			Documents: r.Document,
			Edges:     r.DocumentEdge,
			Versions:  r.DocumentVersion,
		}),
		QuizAttempt: aggregates.NewQuizAttemptAggregate(aggregates.QuizAttemptAggregateDeps{
			Base:     base,
			Users:    r.User,
			Quizzes:  r.Quiz,
			Attempts: r.QuizProgress,
			Results:  r.QuizResult,
		}),
		CourseProgress: aggregates.NewCourseProgressAggregate(aggregates.CourseProgressAggregateDeps{
			Base:     base,
			Users:    r.User,
			Courses:  r.Course,
			Progress: r.CourseProgress,
		}),
		Mentorship: aggregates.NewMentorshipAggregate(aggregates.MentorshipAggregateDeps{
			Base:    base,
			Users:   r.User,
			Mentors: r.MentorMentee,
		}),
	}
}

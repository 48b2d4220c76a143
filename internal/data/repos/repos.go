package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/repos/documents"
	"github.com/yungbote/forumcore/internal/data/repos/forum"
	"github.com/yungbote/forumcore/internal/data/repos/knowledge"
	"github.com/yungbote/forumcore/internal/data/repos/mentor"
	"github.com/yungbote/forumcore/internal/data/repos/quiz"
	"github.com/yungbote/forumcore/internal/data/repos/user"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserStatusRepo = user.UserStatusRepo
type UserProfileRepo = user.UserProfileRepo
type SubjectRepo = user.SubjectRepo

type CategoryRepo = forum.CategoryRepo
type TopicRepo = forum.TopicRepo
type MessageRepo = forum.MessageRepo
type TaskRepo = forum.TaskRepo

type KnowledgeRecordRepo = knowledge.KnowledgeRecordRepo
type MessageExampleRepo = knowledge.MessageExampleRepo
type MessageEmbeddingRepo = knowledge.MessageEmbeddingRepo
type EmbeddingRepo = knowledge.EmbeddingRepo

type DocumentRepo = documents.DocumentRepo
type DocumentEdgeRepo = documents.DocumentEdgeRepo
type DocumentVersionRepo = documents.DocumentVersionRepo

type QuizRepo = quiz.QuizRepo
type QuizProgressRepo = quiz.QuizProgressRepo
type QuizResultRepo = quiz.QuizResultRepo
type CourseRepo = quiz.CourseRepo
type CourseProgressRepo = quiz.CourseProgressRepo

type MentorMenteeRepo = mentor.MentorMenteeRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserStatusRepo(db *gorm.DB, baseLog *logger.Logger) UserStatusRepo {
	return user.NewUserStatusRepo(db, baseLog)
}
func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return user.NewUserProfileRepo(db, baseLog)
}
func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return user.NewSubjectRepo(db, baseLog)
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return forum.NewCategoryRepo(db, baseLog)
}
func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return forum.NewTopicRepo(db, baseLog)
}
func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return forum.NewMessageRepo(db, baseLog)
}
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo { return forum.NewTaskRepo(db, baseLog) }

func NewKnowledgeRecordRepo(db *gorm.DB, baseLog *logger.Logger) KnowledgeRecordRepo {
	return knowledge.NewKnowledgeRecordRepo(db, baseLog)
}
func NewMessageExampleRepo(db *gorm.DB, baseLog *logger.Logger) MessageExampleRepo {
	return knowledge.NewMessageExampleRepo(db, baseLog)
}
func NewMessageEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) MessageEmbeddingRepo {
	return knowledge.NewMessageEmbeddingRepo(db, baseLog)
}
func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	return knowledge.NewEmbeddingRepo(db, baseLog)
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return documents.NewDocumentRepo(db, baseLog)
}
func NewDocumentEdgeRepo(db *gorm.DB, baseLog *logger.Logger) DocumentEdgeRepo {
	return documents.NewDocumentEdgeRepo(db, baseLog)
}
func NewDocumentVersionRepo(db *gorm.DB, baseLog *logger.Logger) DocumentVersionRepo {
	return documents.NewDocumentVersionRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo { return quiz.NewQuizRepo(db, baseLog) }
func NewQuizProgressRepo(db *gorm.DB, baseLog *logger.Logger) QuizProgressRepo {
	return quiz.NewQuizProgressRepo(db, baseLog)
}
func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return quiz.NewQuizResultRepo(db, baseLog)
}
func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return quiz.NewCourseRepo(db, baseLog)
}
func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return quiz.NewCourseProgressRepo(db, baseLog)
}

func NewMentorMenteeRepo(db *gorm.DB, baseLog *logger.Logger) MentorMenteeRepo {
	return mentor.NewMentorMenteeRepo(db, baseLog)
}

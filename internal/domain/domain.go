package domain

import (
	"github.com/yungbote/forumcore/internal/domain/documents"
	"github.com/yungbote/forumcore/internal/domain/forum"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/domain/mentor"
	"github.com/yungbote/forumcore/internal/domain/quiz"
	"github.com/yungbote/forumcore/internal/domain/user"
)

type (
	User            = user.User
	UserStatus      = user.UserStatus
	UserFeedback    = user.UserFeedback
	UserProfile     = user.UserProfile
	Subject         = user.Subject
	UserSchedule    = user.UserSchedule
	SubjectSchedule = user.SubjectSchedule
	Role            = user.Role
	AccountStatus   = user.AccountStatus

	Category    = forum.Category
	Subcategory = forum.Subcategory
	Topic       = forum.Topic
	Message     = forum.Message
	Task        = forum.Task

	UserKnowledgeRecord = knowledge.UserKnowledgeRecord
	UserMessageExample  = knowledge.UserMessageExample
	MessageEmbedding    = knowledge.MessageEmbedding
	Embedding           = knowledge.Embedding
	OwnerRef            = knowledge.OwnerRef
	OwnerKind           = knowledge.OwnerKind
	OwnedVector         = knowledge.OwnedVector

	Document        = documents.Document
	DocumentChild   = documents.DocumentChild
	DocumentVersion = documents.DocumentVersion

	Quiz           = quiz.Quiz
	QuizProgress   = quiz.QuizProgress
	UserQuizResult = quiz.UserQuizResult
	QuizCourse     = quiz.QuizCourse
	QuizCourseItem = quiz.QuizCourseItem
	CourseProgress = quiz.CourseProgress

	MentorMentee = mentor.MentorMentee
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&User{},
		&UserStatus{},
		&UserFeedback{},
		&UserProfile{},
		&Subject{},
		&UserSchedule{},
		&SubjectSchedule{},

		&Category{},
		&Subcategory{},
		&Topic{},
		&Message{},
		&Task{},

		&UserKnowledgeRecord{},
		&UserMessageExample{},
		&MessageEmbedding{},
		&Embedding{},

		&Document{},
		&DocumentChild{},
		&DocumentVersion{},

		&Quiz{},
		&QuizProgress{},
		&UserQuizResult{},
		&QuizCourse{},
		&QuizCourseItem{},
		&CourseProgress{},

		&MentorMentee{},
	}
}

package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/repos"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserStatus  repos.UserStatusRepo
	UserProfile repos.UserProfileRepo
	Subject     repos.SubjectRepo

	Category repos.CategoryRepo
	Topic    repos.TopicRepo
	Message  repos.MessageRepo
	Task     repos.TaskRepo

	KnowledgeRecord  repos.KnowledgeRecordRepo
	MessageExample   repos.MessageExampleRepo
	MessageEmbedding repos.MessageEmbeddingRepo
	Embedding        repos.EmbeddingRepo

	Document        repos.DocumentRepo
	DocumentEdge    repos.DocumentEdgeRepo
	DocumentVersion repos.DocumentVersionRepo

	Quiz           repos.QuizRepo
	QuizProgress   repos.QuizProgressRepo
	QuizResult     repos.QuizResultRepo
	Course         repos.CourseRepo
	CourseProgress repos.CourseProgressRepo

	MentorMentee repos.MentorMenteeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserStatus:  repos.NewUserStatusRepo(db, log),
		UserProfile: repos.NewUserProfileRepo(db, log),
		Subject:     repos.NewSubjectRepo(db, log),

		Category: repos.NewCategoryRepo(db, log),
		Topic:    repos.NewTopicRepo(db, log),
		Message:  repos.NewMessageRepo(db, log),
		Task:     repos.NewTaskRepo(db, log),

		KnowledgeRecord:  repos.NewKnowledgeRecordRepo(db, log),
		MessageExample:   repos.NewMessageExampleRepo(db, log),
		MessageEmbedding: repos.NewMessageEmbeddingRepo(db, log),
		Embedding:        repos.NewEmbeddingRepo(db, log),

		Document:        repos.NewDocumentRepo(db, log),
		DocumentEdge:    repos.NewDocumentEdgeRepo(db, log),
		DocumentVersion: repos.NewDocumentVersionRepo(db, log),

		Quiz:           repos.NewQuizRepo(db, log),
		QuizProgress:   repos.NewQuizProgressRepo(db, log),
		QuizResult:     repos.NewQuizResultRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		CourseProgress: repos.NewCourseProgressRepo(db, log),

		MentorMentee: repos.NewMentorMenteeRepo(db, log),
	}
}

package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/forum"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/domain/quiz"
)

// Unique appends a random suffix so fixtures survive a shared database.
func Unique(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Vector returns a full-width embedding whose first component is seed.
func Vector(seed float32) pgvector.Vector {
	v := make([]float32, knowledge.Dimensions)
	v[0] = seed
	v[len(v)-1] = 1
	return pgvector.NewVector(v)
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	name := Unique(username)
	u := &types.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "pw",
		Role:     "user",
		Status:   "active",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Category {
	tb.Helper()
	name := Unique("category")
	c := &types.Category{Name: name, Slug: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedSubcategory(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID uint) *types.Subcategory {
	tb.Helper()
	name := Unique("subcategory")
	s := &types.Subcategory{CategoryID: categoryID, Name: name, Slug: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subcategory: %v", err)
	}
	return s
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint) *types.Topic {
	tb.Helper()
	t := &types.Topic{
		UserID:   userID,
		Title:    "topic",
		TaskType: forum.TaskTypeGeneral,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uint, userID, parentID *uint) *types.Message {
	tb.Helper()
	m := &types.Message{
		TopicID:  topicID,
		UserID:   userID,
		ParentID: parentID,
		Content:  "message",
		Status:   forum.MessageStatusPublished,
		TaskType: forum.TaskTypeGeneral,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}

func SeedKnowledgeRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint) *types.UserKnowledgeRecord {
	tb.Helper()
	r := &types.UserKnowledgeRecord{UserID: userID, Name: "persona"}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed knowledge record: %v", err)
	}
	return r
}

func SeedMessageExample(tb testing.TB, ctx context.Context, tx *gorm.DB, profileID uuid.UUID) *types.UserMessageExample {
	tb.Helper()
	e := &types.UserMessageExample{ProfileID: profileID, Content: "example"}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed message example: %v", err)
	}
	return e
}

func SeedEmbedding(tb testing.TB, ctx context.Context, tx *gorm.DB, owner knowledge.OwnerRef, seed float32) *types.MessageEmbedding {
	tb.Helper()
	e := &types.MessageEmbedding{Content: owner.String(), Embedding: Vector(seed)}
	if err := owner.Apply(e); err != nil {
		tb.Fatalf("seed embedding owner: %v", err)
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed embedding: %v", err)
	}
	return e
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint, parentID *uuid.UUID) *types.Document {
	tb.Helper()
	d := &types.Document{
		UserID:           userID,
		ParentID:         parentID,
		Title:            Unique("doc"),
		IsActive:         true,
		ProcessingStatus: "pending",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedDocumentEdge(tb testing.TB, ctx context.Context, tx *gorm.DB, parentID, childID uuid.UUID) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.DocumentChild{ParentID: parentID, ChildID: childID}).Error; err != nil {
		tb.Fatalf("seed document edge: %v", err)
	}
}

// Questions builds a payload of single-choice questions, each worth one
// point, whose correct answer id is "<question id>-ok".
func Questions(ids ...string) quiz.Payload {
	p := quiz.Payload{}
	for _, id := range ids {
		p.Questions = append(p.Questions, quiz.Question{
			ID:     id,
			Text:   "question " + id,
			Type:   quiz.QuestionSingleChoice,
			Points: 1,
			Answers: []quiz.Answer{
				{ID: id + "-ok", Text: "right", IsCorrect: true, Points: 1},
				{ID: id + "-no", Text: "wrong"},
			},
		})
	}
	return p
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID *uint, payload quiz.Payload) *types.Quiz {
	tb.Helper()
	q := quiz.NewQuiz(Unique("quiz"), "quiz")
	q.CreatorID = creatorID
	q.Status = quiz.StatusPublished
	raw, err := quiz.EncodePayload(payload)
	if err != nil {
		tb.Fatalf("encode quiz payload: %v", err)
	}
	q.Questions = raw
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID *uint, sequential bool) *types.QuizCourse {
	tb.Helper()
	c := &types.QuizCourse{
		CreatorID:    creatorID,
		Title:        "course",
		Language:     "en",
		Status:       quiz.StatusPublished,
		IsSequential: sequential,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseItem(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, quizID uint, order int, required bool) *types.QuizCourseItem {
	tb.Helper()
	it := &types.QuizCourseItem{CourseID: courseID, QuizID: quizID, OrderIndex: order, IsRequired: required}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed course item: %v", err)
	}
	return it
}

// Count returns the rows of table matching the condition.
func Count(tb testing.TB, tx *gorm.DB, table, where string, args ...any) int64 {
	tb.Helper()
	var n int64
	q := tx.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}

package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/forumcore/internal/data/repos/testutil"
	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/quiz"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

func TestQuizRepoDefaults(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewQuizRepo(db, testutil.Logger(t))

	q := quiz.NewQuiz(testutil.Unique("defaults"), "Defaults")
	if err := repo.Create(dbc, q); err != nil {
		t.Fatalf("Create: %v", err)
	}
	unlimited := quiz.NewQuiz(testutil.Unique("unlimited"), "Unlimited")
	unlimited.MaxAttempts = 0
	unlimited.ShowCorrectAnswers = false
	if err := repo.Create(dbc, unlimited); err != nil {
		t.Fatalf("Create unlimited: %v", err)
	}

	got, err := repo.GetBySlug(dbc, q.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.PassingScore != quiz.DefaultPassingScore || got.MaxAttempts != quiz.DefaultMaxAttempts || !got.ShowCorrectAnswers {
		t.Fatalf("defaults not stored: %+v", got)
	}
	got, err = repo.GetByID(dbc, unlimited.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// Zero values must survive the insert rather than fall back to column defaults.
	if got.MaxAttempts != 0 || got.ShowCorrectAnswers {
		t.Fatalf("zero values overwritten: %+v", got)
	}

	bad := quiz.NewQuiz(testutil.Unique("bad"), "Bad")
	bad.Questions = []byte("{not json")
	if err := repo.Create(dbc, bad); err == nil {
		t.Fatalf("Create with malformed payload: expected error")
	}
}

func TestQuizProgressAndResults(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "attempts")
	q := testutil.SeedQuiz(t, ctx, tx, nil, testutil.Questions("q1", "q2"))

	progress := NewQuizProgressRepo(db, testutil.Logger(t))
	first := &types.QuizProgress{UserID: u.ID, QuizID: q.ID}
	if err := progress.Create(dbc, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Status != quiz.AttemptInProgress || first.StartedAt.IsZero() {
		t.Fatalf("Create: defaults not applied: %+v", first)
	}
	if err := progress.Create(dbc, &types.QuizProgress{UserID: u.ID, QuizID: q.ID, Status: quiz.AttemptAbandoned}); err != nil {
		t.Fatalf("Create abandoned: %v", err)
	}
	n, err := progress.CountAttempts(dbc, u.ID, q.ID)
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountAttempts: expected 2, got %d", n)
	}

	results := NewQuizResultRepo(db, testutil.Logger(t))
	now := time.Now().UTC()
	if err := results.Create(dbc, &types.UserQuizResult{
		UserID: u.ID, QuizID: q.ID, AttemptID: &first.ID,
		TotalQuestions: 2, CorrectAnswers: 1, TotalPoints: 2, EarnedPoints: 1, Percentage: 50, CompletedAt: now,
	}); err != nil {
		t.Fatalf("Create result: %v", err)
	}
	best, err := results.BestForQuiz(dbc, u.ID, q.ID)
	if err != nil {
		t.Fatalf("BestForQuiz: %v", err)
	}
	if best == nil || best.Percentage != 50 {
		t.Fatalf("BestForQuiz: unexpected result %+v", best)
	}
	// A second result for the same attempt is rejected by the unique attempt_id.
	if err := results.Create(dbc, &types.UserQuizResult{
		UserID: u.ID, QuizID: q.ID, AttemptID: &first.ID, CompletedAt: now,
	}); err == nil {
		t.Fatalf("Create duplicate result: expected error")
	}
}

func TestCourseRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "learner")
	q1 := testutil.SeedQuiz(t, ctx, tx, nil, testutil.Questions("a"))
	q2 := testutil.SeedQuiz(t, ctx, tx, nil, testutil.Questions("b"))

	courses := NewCourseRepo(db, testutil.Logger(t))
	c := &types.QuizCourse{Title: "Course", Language: "en", Status: quiz.StatusPublished, IsSequential: true}
	if err := courses.Create(dbc, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := courses.AddItems(dbc, []*types.QuizCourseItem{
		{CourseID: c.ID, QuizID: q2.ID, OrderIndex: 2, IsRequired: true},
		{CourseID: c.ID, QuizID: q1.ID, OrderIndex: 1, IsRequired: true},
	}); err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	items, err := courses.ListItems(dbc, c.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 || items[0].QuizID != q1.ID {
		t.Fatalf("ListItems: not ordered by order_index: %+v", items)
	}

	progress := NewCourseProgressRepo(db, testutil.Logger(t))
	now := time.Now().UTC()
	row := &types.CourseProgress{UserID: u.ID, CourseID: c.ID, StartedAt: now, LastActivityAt: now, CompletedItemIDs: []byte("[]")}
	if err := progress.Create(dbc, row); err != nil {
		t.Fatalf("Create progress: %v", err)
	}
	if err := progress.UpdateFields(dbc, row.ID, map[string]interface{}{"completion_percentage": 50.0}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := progress.GetByUserCourse(dbc, u.ID, c.ID)
	if err != nil {
		t.Fatalf("GetByUserCourse: %v", err)
	}
	if got == nil || got.CompletionPercentage != 50 {
		t.Fatalf("GetByUserCourse: unexpected result %+v", got)
	}
	if err := progress.Create(dbc, &types.CourseProgress{UserID: u.ID, CourseID: c.ID, StartedAt: now, LastActivityAt: now}); err == nil {
		t.Fatalf("Create duplicate progress: expected error")
	}
}

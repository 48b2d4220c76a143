package forum

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/forumcore/internal/data/repos/testutil"
	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/domain/forum"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewCategoryRepo(db, testutil.Logger(t))
	slug := testutil.Unique("cat")
	cats, err := repo.Create(dbc, []*types.Category{{Name: slug, Slug: slug, IsActive: true}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetBySlug(dbc, slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got == nil || got.ID != cats[0].ID {
		t.Fatalf("GetBySlug: unexpected result %+v", got)
	}

	if _, err := repo.CreateSubcategories(dbc, []*types.Subcategory{
		{CategoryID: got.ID, Name: "b", Slug: "b"},
		{CategoryID: got.ID, Name: "a", Slug: "a"},
	}); err != nil {
		t.Fatalf("CreateSubcategories: %v", err)
	}
	subs, err := repo.ListSubcategories(dbc, got.ID)
	if err != nil {
		t.Fatalf("ListSubcategories: %v", err)
	}
	if len(subs) != 2 || subs[0].Name != "a" {
		t.Fatalf("ListSubcategories: unexpected result %+v", subs)
	}

	// Slugs are unique per category only.
	if _, err := repo.CreateSubcategories(dbc, []*types.Subcategory{{CategoryID: got.ID, Name: "dup", Slug: "a"}}); err == nil {
		t.Fatalf("CreateSubcategories duplicate slug: expected error")
	}
}

func TestMessageRepoOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "msgs")
	topic := testutil.SeedTopic(t, ctx, tx, u.ID)

	repo := NewMessageRepo(db, testutil.Logger(t))
	same := time.Now().UTC().Truncate(time.Second)
	rows, err := repo.Create(dbc, []*types.Message{
		{TopicID: topic.ID, Content: "late", Status: forum.MessageStatusPublished, TaskType: forum.TaskTypeGeneral, CreatedAt: same.Add(time.Minute)},
		{TopicID: topic.ID, Content: "first", Status: forum.MessageStatusPublished, TaskType: forum.TaskTypeGeneral, CreatedAt: same},
		{TopicID: topic.ID, Content: "second", Status: forum.MessageStatusPublished, TaskType: forum.TaskTypeGeneral, CreatedAt: same},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := repo.ListByTopic(dbc, topic.ID)
	if err != nil {
		t.Fatalf("ListByTopic: %v", err)
	}
	want := []string{"first", "second", "late"}
	if len(list) != len(want) {
		t.Fatalf("ListByTopic: expected %d rows, got %d", len(want), len(list))
	}
	for i, m := range list {
		if m.Content != want[i] {
			t.Fatalf("ListByTopic[%d]: expected %q, got %q", i, want[i], m.Content)
		}
	}

	if err := repo.UpdateFields(dbc, rows[0].ID, map[string]interface{}{"parent_id": rows[1].ID}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	replies, err := repo.ListReplies(dbc, rows[1].ID)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != rows[0].ID {
		t.Fatalf("ListReplies: unexpected result %+v", replies)
	}
	parents, err := repo.ParentIDs(dbc, topic.ID)
	if err != nil {
		t.Fatalf("ParentIDs: %v", err)
	}
	if p := parents[rows[0].ID]; p == nil || *p != rows[1].ID {
		t.Fatalf("ParentIDs: unexpected parent %v", p)
	}
	n, err := repo.CountByTopic(dbc, topic.ID)
	if err != nil {
		t.Fatalf("CountByTopic: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountByTopic: expected 3, got %d", n)
	}
}

func TestTaskRepoClaim(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewTaskRepo(db, testutil.Logger(t))
	id := testutil.Unique("task")
	if err := repo.Create(dbc, &types.Task{TaskID: id, Question: "why?", TaskType: forum.TaskTypeQuestion, MaxAttempts: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.ClaimNext(dbc)
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if claimed == nil || claimed.Status != forum.TaskStatusProcessing || claimed.Attempts != 1 {
		t.Fatalf("ClaimNext: unexpected result %+v", claimed)
	}
	if err := repo.Fail(dbc, claimed.TaskID, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	got, err := repo.GetByTaskID(dbc, id)
	if err != nil {
		t.Fatalf("GetByTaskID: %v", err)
	}
	if got.Status != forum.TaskStatusFailed || got.ErrorMessage != "boom" {
		t.Fatalf("Fail: unexpected row %+v", got)
	}

	// Attempts are exhausted, so the failed task is not runnable again.
	again, err := repo.ClaimNext(dbc)
	if err != nil {
		t.Fatalf("ClaimNext (exhausted): %v", err)
	}
	if again != nil && again.TaskID == id {
		t.Fatalf("ClaimNext: exhausted task was claimed again")
	}
}

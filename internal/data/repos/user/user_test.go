package user

import (
	"context"
	"testing"

	"github.com/yungbote/forumcore/internal/data/repos/testutil"
	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	name := testutil.Unique("userrepo")
	created, err := repo.Create(dbc, []*types.User{
		{Username: name, Email: name + "@example.com", Password: "pw", Role: "mentor", Status: "active"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}
	id := created[0].ID

	got, err := repo.GetByID(dbc, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Username != name {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	byName, err := repo.GetByUsername(dbc, name)
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName == nil || byName.ID != id {
		t.Fatalf("GetByUsername: unexpected result: %+v", byName)
	}

	missing, err := repo.GetByID(dbc, id+100000)
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", missing)
	}

	uTaken, eTaken, err := repo.Taken(dbc, name, "other@example.com")
	if err != nil {
		t.Fatalf("Taken: %v", err)
	}
	if !uTaken || eTaken {
		t.Fatalf("Taken: expected username only, got username=%v email=%v", uTaken, eTaken)
	}

	if err := repo.UpdateFields(dbc, id, map[string]interface{}{"status": "blocked"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	locked, err := repo.LockByID(dbc, id)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if locked.Status != "blocked" {
		t.Fatalf("LockByID: expected blocked, got %q", locked.Status)
	}
	if _, err := repo.LockByID(dbctx.Context{Ctx: context.Background()}, id); err == nil {
		t.Fatalf("LockByID without tx: expected error")
	}

	mentors, err := repo.ListByRole(dbc, "mentor")
	if err != nil {
		t.Fatalf("ListByRole: %v", err)
	}
	found := false
	for _, m := range mentors {
		found = found || m.ID == id
	}
	if !found {
		t.Fatalf("ListByRole: user %d missing", id)
	}

	// A duplicate username must be rejected by the unique index.
	if _, err := repo.Create(dbc, []*types.User{
		{Username: name, Email: testutil.Unique("dup") + "@example.com", Password: "pw", Role: "user", Status: "pending"},
	}); err == nil {
		t.Fatalf("Create duplicate: expected error")
	}
}

func TestUserStatusAndProfileRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "status")

	statusRepo := NewUserStatusRepo(db, testutil.Logger(t))
	st, err := statusRepo.Ensure(dbc, u.ID)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	again, err := statusRepo.Ensure(dbc, u.ID)
	if err != nil {
		t.Fatalf("Ensure (again): %v", err)
	}
	if st.ID != again.ID {
		t.Fatalf("Ensure: expected a single row, got %d and %d", st.ID, again.ID)
	}
	if err := statusRepo.AddPoints(dbc, u.ID, 2, 5); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	st, err = statusRepo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if st.PenaltyPoints != 2 || st.SocialPoints != 5 {
		t.Fatalf("AddPoints: unexpected counters %+v", st)
	}

	profileRepo := NewUserProfileRepo(db, testutil.Logger(t))
	if err := profileRepo.Upsert(dbc, &types.UserProfile{UserID: u.ID, City: "Riga", Language: "en"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := profileRepo.Upsert(dbc, &types.UserProfile{UserID: u.ID, City: "Tallinn", Language: "et"}); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	p, err := profileRepo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if p == nil || p.City != "Tallinn" || p.Language != "et" {
		t.Fatalf("Upsert: unexpected profile %+v", p)
	}

	subjects := NewSubjectRepo(db, testutil.Logger(t))
	created, err := subjects.Create(dbc, []*types.Subject{{UserID: u.ID, Name: "Go", Level: "B2", Language: "en", Price: 30, LearnMode: "online", Status: "active"}})
	if err != nil {
		t.Fatalf("Create subject: %v", err)
	}
	if err := subjects.Book(dbc, &types.SubjectSchedule{UserID: u.ID, SubjectID: created[0].ID, DateAt: created[0].CreatedAt, Status: "pending"}); err != nil {
		t.Fatalf("Book: %v", err)
	}
	bookings, err := subjects.ListBookings(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("ListBookings: expected 1, got %d", len(bookings))
	}
}

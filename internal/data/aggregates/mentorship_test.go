package aggregates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repotest "github.com/yungbote/forumcore/internal/data/repos/testutil"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/mentor"
)

func TestMentorshipLifecycle(t *testing.T) {
	h := newHarness(t)
	agg := h.mentorship()
	m := repotest.SeedUser(t, h.ctx, h.tx, "mentor")
	e := repotest.SeedUser(t, h.ctx, h.tx, "mentee")

	rel, err := agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{
		MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentee, Notes: " please ",
	})
	require.NoError(t, err)
	assert.Equal(t, mentor.StatusPending, rel.Status)
	assert.Equal(t, "please", rel.MenteeNotes)
	assert.Empty(t, rel.MentorNotes)

	_, err = agg.Pause(h.ctx, rel.ID)
	assert.ErrorIs(t, err, domainagg.ErrInvalidState)

	active, err := agg.Accept(h.ctx, rel.ID)
	require.NoError(t, err)
	require.NotNil(t, active.AcceptedAt)
	acceptedAt := *active.AcceptedAt

	paused, err := agg.Pause(h.ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, mentor.StatusPaused, paused.Status)

	resumed, err := agg.Resume(h.ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, mentor.StatusActive, resumed.Status)
	require.NotNil(t, resumed.AcceptedAt)
	assert.True(t, acceptedAt.Equal(*resumed.AcceptedAt), "accepted_at is stamped once")

	done, err := agg.Complete(h.ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, mentor.StatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, mentor.InitiatedByMentee, done.InitiatedBy)

	for _, transition := range []func() error{
		func() error { _, err := agg.Accept(h.ctx, rel.ID); return err },
		func() error { _, err := agg.Resume(h.ctx, rel.ID); return err },
		func() error { _, err := agg.Complete(h.ctx, rel.ID); return err },
	} {
		assert.ErrorIs(t, transition(), domainagg.ErrInvalidState)
	}

	// a closed pair stays closed
	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentor})
	assert.ErrorIs(t, err, domainagg.ErrInvalidState)
}

func TestRequestMentorshipChecks(t *testing.T) {
	h := newHarness(t)
	agg := h.mentorship()
	m := repotest.SeedUser(t, h.ctx, h.tx, "mentor2")
	e := repotest.SeedUser(t, h.ctx, h.tx, "mentee2")

	_, err := agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: m.ID, InitiatedBy: mentor.InitiatedByMentor})
	assert.ErrorIs(t, err, domainagg.ErrValidation)
	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: "admin"})
	assert.ErrorIs(t, err, domainagg.ErrValidation)
	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: 987654, InitiatedBy: mentor.InitiatedByMentor})
	assert.ErrorIs(t, err, domainagg.ErrNotFound)

	rel, err := agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentor, Notes: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", rel.MentorNotes)

	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentee})
	assert.ErrorIs(t, err, domainagg.ErrUniquenessViolation)

	rejected, err := agg.Reject(h.ctx, rel.ID)
	require.NoError(t, err)
	assert.Nil(t, rejected.AcceptedAt)
	assert.Nil(t, rejected.CompletedAt)

	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentee})
	assert.ErrorIs(t, err, domainagg.ErrInvalidState)

	// the reverse direction is a distinct pair
	_, err = agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: e.ID, MenteeID: m.ID, InitiatedBy: mentor.InitiatedByMentor})
	assert.NoError(t, err)
}

func TestUpdateSubscriptions(t *testing.T) {
	h := newHarness(t)
	agg := h.mentorship()
	m := repotest.SeedUser(t, h.ctx, h.tx, "mentor3")
	e := repotest.SeedUser(t, h.ctx, h.tx, "mentee3")
	rel, err := agg.RequestMentorship(h.ctx, domainagg.RequestMentorshipInput{MentorID: m.ID, MenteeID: e.ID, InitiatedBy: mentor.InitiatedByMentor})
	require.NoError(t, err)

	yes := true
	notes := "weekly sync"
	got, err := agg.UpdateSubscriptions(h.ctx, domainagg.UpdateSubscriptionsInput{ID: rel.ID, SubscribeToQuizzes: &yes, MenteeNotes: &notes})
	require.NoError(t, err)
	assert.True(t, got.SubscribeToQuizzes)
	assert.False(t, got.SubscribeToCourses)
	assert.Equal(t, "weekly sync", got.MenteeNotes)
	assert.Equal(t, int64(1), h.count(t, "mentor_mentee", "id = ? AND subscribe_to_quizzes = ?", rel.ID, true))

	_, err = agg.Reject(h.ctx, rel.ID)
	require.NoError(t, err)
	_, err = agg.UpdateSubscriptions(h.ctx, domainagg.UpdateSubscriptionsInput{ID: rel.ID, SubscribeToCourses: &yes})
	assert.ErrorIs(t, err, domainagg.ErrInvalidState)
}

package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/forumcore/internal/data/repos/testutil"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

func TestDeleteUserCascadesThroughTopics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "author")
	other := testutil.SeedUser(t, ctx, tx, "other")
	topic := testutil.SeedTopic(t, ctx, tx, author.ID)
	root := testutil.SeedMessage(t, ctx, tx, topic.ID, &author.ID, nil)
	reply := testutil.SeedMessage(t, ctx, tx, topic.ID, &other.ID, &root.ID)
	testutil.SeedEmbedding(t, ctx, tx, knowledge.TopicOwner(topic.ID), 1)
	testutil.SeedEmbedding(t, ctx, tx, knowledge.MessageOwner(reply.ID), 2)

	otherTopic := testutil.SeedTopic(t, ctx, tx, other.ID)
	foreign := testutil.SeedMessage(t, ctx, tx, otherTopic.ID, &author.ID, nil)

	eng := New(db, testutil.Logger(t))
	rep, err := eng.DeleteUint(dbctx.Context{Ctx: ctx, Tx: tx}, "users", author.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, rep.Deleted["users"])
	assert.EqualValues(t, 1, rep.Deleted["topics"])
	assert.EqualValues(t, 2, rep.Deleted["messages"])
	assert.EqualValues(t, 2, rep.Deleted["message_embeddings"])

	assert.Zero(t, testutil.Count(t, tx, "topics", "id = ?", topic.ID))
	assert.Zero(t, testutil.Count(t, tx, "messages", "topic_id = ?", topic.ID))
	assert.Zero(t, testutil.Count(t, tx, "message_embeddings", "topic_id = ? OR message_id = ?", topic.ID, reply.ID))

	// The author's message in someone else's topic survives anonymously.
	assert.EqualValues(t, 1, testutil.Count(t, tx, "messages", "id = ? AND user_id IS NULL", foreign.ID))
	assert.EqualValues(t, 1, testutil.Count(t, tx, "users", "id = ?", other.ID))
}

func TestDeleteMessageRemovesReplyChain(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "replier")
	topic := testutil.SeedTopic(t, ctx, tx, u.ID)
	root := testutil.SeedMessage(t, ctx, tx, topic.ID, &u.ID, nil)
	child := testutil.SeedMessage(t, ctx, tx, topic.ID, &u.ID, &root.ID)
	grandchild := testutil.SeedMessage(t, ctx, tx, topic.ID, &u.ID, &child.ID)
	sibling := testutil.SeedMessage(t, ctx, tx, topic.ID, &u.ID, nil)
	testutil.SeedEmbedding(t, ctx, tx, knowledge.MessageOwner(grandchild.ID), 3)
	keep := testutil.SeedEmbedding(t, ctx, tx, knowledge.MessageOwner(sibling.ID), 4)

	eng := New(db, testutil.Logger(t))
	rep, err := eng.DeleteUint(dbctx.Context{Ctx: ctx, Tx: tx}, "messages", root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rep.Deleted["messages"])
	assert.EqualValues(t, 1, rep.Deleted["message_embeddings"])

	assert.EqualValues(t, 1, testutil.Count(t, tx, "messages", "topic_id = ?", topic.ID))
	assert.EqualValues(t, 1, testutil.Count(t, tx, "message_embeddings", "id = ?", keep.ID))
}

func TestDeleteQuizRestrictedByCourseItem(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	q := testutil.SeedQuiz(t, ctx, tx, nil, testutil.Questions("q1"))
	course := testutil.SeedCourse(t, ctx, tx, nil, false)
	testutil.SeedCourseItem(t, ctx, tx, course.ID, q.ID, 0, true)

	eng := New(db, testutil.Logger(t))
	_, err := eng.DeleteUint(dbctx.Context{Ctx: ctx, Tx: tx}, "quizzes", q.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRestricted))
	assert.EqualValues(t, 1, testutil.Count(t, tx, "quizzes", "id = ?", q.ID))
}

func TestDeleteCourseReleasesQuiz(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	q := testutil.SeedQuiz(t, ctx, tx, nil, testutil.Questions("q1"))
	course := testutil.SeedCourse(t, ctx, tx, nil, false)
	testutil.SeedCourseItem(t, ctx, tx, course.ID, q.ID, 0, true)

	eng := New(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	_, err := eng.DeleteUint(dbc, "quiz_courses", course.ID)
	require.NoError(t, err)
	assert.Zero(t, testutil.Count(t, tx, "quiz_course_items", "course_id = ?", course.ID))

	_, err = eng.DeleteUint(dbc, "quizzes", q.ID)
	require.NoError(t, err)
}

func TestDeleteDocumentTree(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "docs")
	root := testutil.SeedDocument(t, ctx, tx, u.ID, nil)
	mid := testutil.SeedDocument(t, ctx, tx, u.ID, &root.ID)
	leaf := testutil.SeedDocument(t, ctx, tx, u.ID, &mid.ID)
	outside := testutil.SeedDocument(t, ctx, tx, u.ID, nil)
	testutil.SeedDocumentEdge(t, ctx, tx, outside.ID, leaf.ID)
	testutil.SeedDocumentEdge(t, ctx, tx, root.ID, outside.ID)

	eng := New(db, testutil.Logger(t))
	rep, err := eng.DeleteUUID(dbctx.Context{Ctx: ctx, Tx: tx}, "documents", root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rep.Deleted["documents"])
	assert.EqualValues(t, 2, rep.Deleted["document_children"])

	assert.EqualValues(t, 1, testutil.Count(t, tx, "documents", "id = ?", outside.ID))
	assert.Zero(t, testutil.Count(t, tx, "document_children", "parent_id IN ? OR child_id IN ?",
		[]any{root.ID, mid.ID, leaf.ID, outside.ID}, []any{root.ID, mid.ID, leaf.ID, outside.ID}))
}

func TestDeleteUnknownTable(t *testing.T) {
	eng := New(nil, testutil.Logger(t))
	_, err := eng.DeleteUint(dbctx.Context{Ctx: context.Background()}, "nope", 1)
	require.Error(t, err)

	_, err = eng.DeleteUint(dbctx.Context{Ctx: context.Background()}, "document_children", 1)
	require.Error(t, err)
}

package aggregates_test

import (
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/forumcore/internal/data/aggregates"
	aggtest "github.com/yungbote/forumcore/internal/data/aggregates/testutil"
	"github.com/yungbote/forumcore/internal/data/repos"
	repotest "github.com/yungbote/forumcore/internal/data/repos/testutil"
	types "github.com/yungbote/forumcore/internal/domain"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
)

// ownerColumnsSet counts the non-null owner columns of an embedding row.
func ownerColumnsSet(t *testing.T, h *harness, id uint) int {
	t.Helper()
	var row types.MessageEmbedding
	require.NoError(t, h.tx.First(&row, id).Error)
	n := 0
	for _, p := range []*uint{row.MessageID, row.TopicID, row.UserMessageExampleID} {
		if p != nil {
			n++
		}
	}
	return n
}

func TestExampleEmbeddingLifecycle(t *testing.T) {
	h := newHarness(t)
	agg := h.knowledge()
	u := repotest.SeedUser(t, h.ctx, h.tx, "scenario-c")
	rec := repotest.SeedKnowledgeRecord(t, h.ctx, h.tx, u.ID)
	ex := repotest.SeedMessageExample(t, h.ctx, h.tx, rec.ID)

	emb, err := agg.AttachEmbedding(h.ctx, domainagg.AttachEmbeddingInput{
		Owner:    knowledge.ExampleOwner(ex.ID),
		Content:  "example text",
		Vector:   repotest.Vector(0.5),
		Metadata: map[string]any{"source": "test"},
	})
	require.NoError(t, err)
	require.NotNil(t, emb.UserMessageExampleID)
	assert.Equal(t, ex.ID, *emb.UserMessageExampleID)
	assert.Equal(t, 1, ownerColumnsSet(t, h, emb.ID))

	res, err := agg.DeleteMessageExample(h.ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted["message_embeddings"])
	assert.Equal(t, int64(0), h.count(t, "message_embeddings", "id = ?", emb.ID))
	assert.Equal(t, int64(1), h.count(t, "user_knowledge", "id = ?", rec.ID))

	// a row carrying two owners never reaches the table
	u2 := repotest.SeedUser(t, h.ctx, h.tx, "scenario-c2")
	topic := repotest.SeedTopic(t, h.ctx, h.tx, u2.ID)
	msg := repotest.SeedMessage(t, h.ctx, h.tx, topic.ID, &u2.ID, nil)
	bad := &types.MessageEmbedding{Content: "both", Embedding: repotest.Vector(1), MessageID: &msg.ID, TopicID: &topic.ID}
	err = repos.NewMessageEmbeddingRepo(h.tx, h.log).Create(h.dbc(), bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, knowledge.ErrInvalidOwner))
	assert.ErrorIs(t, aggregates.MapError("test", err), domainagg.ErrInvalidOwner)
}

func TestAttachEmbeddingRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	agg := h.knowledge()
	u := repotest.SeedUser(t, h.ctx, h.tx, "attach")
	topic := repotest.SeedTopic(t, h.ctx, h.tx, u.ID)

	_, err := agg.AttachEmbedding(h.ctx, domainagg.AttachEmbeddingInput{Content: "x", Vector: repotest.Vector(1)})
	assert.ErrorIs(t, err, domainagg.ErrInvalidOwner)
	assert.ErrorIs(t, err, knowledge.ErrInvalidOwner)

	_, err = agg.AttachEmbedding(h.ctx, domainagg.AttachEmbeddingInput{
		Owner: knowledge.TopicOwner(topic.ID), Content: "x", Vector: pgvector.NewVector([]float32{1, 2, 3}),
	})
	assert.ErrorIs(t, err, domainagg.ErrValidation)

	_, err = agg.AttachEmbedding(h.ctx, domainagg.AttachEmbeddingInput{
		Owner: knowledge.MessageOwner(424242), Content: "x", Vector: repotest.Vector(1),
	})
	assert.ErrorIs(t, err, domainagg.ErrNotFound)
	assert.Equal(t, int64(0), h.count(t, "message_embeddings", ""))
}

func TestUpdateEmbeddingMovesOwnerExclusively(t *testing.T) {
	h := newHarness(t)
	agg := h.knowledge()
	u := repotest.SeedUser(t, h.ctx, h.tx, "move")
	topic := repotest.SeedTopic(t, h.ctx, h.tx, u.ID)
	msg := repotest.SeedMessage(t, h.ctx, h.tx, topic.ID, &u.ID, nil)
	emb := repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.MessageOwner(msg.ID), 1)

	to := knowledge.TopicOwner(topic.ID)
	content := "moved"
	updated, err := agg.UpdateEmbedding(h.ctx, domainagg.UpdateEmbeddingInput{ID: emb.ID, Owner: &to, Content: &content})
	require.NoError(t, err)
	assert.Nil(t, updated.MessageID)
	require.NotNil(t, updated.TopicID)
	assert.Equal(t, topic.ID, *updated.TopicID)
	assert.Equal(t, 1, ownerColumnsSet(t, h, emb.ID))
	assert.Equal(t, int64(1), h.count(t, "message_embeddings", "id = ? AND topic_id = ? AND message_id IS NULL", emb.ID, topic.ID))

	invalid := knowledge.OwnerRef{}
	_, err = agg.UpdateEmbedding(h.ctx, domainagg.UpdateEmbeddingInput{ID: emb.ID, Owner: &invalid})
	assert.ErrorIs(t, err, domainagg.ErrInvalidOwner)

	_, err = agg.UpdateEmbedding(h.ctx, domainagg.UpdateEmbeddingInput{ID: 999999, Content: &content})
	assert.ErrorIs(t, err, domainagg.ErrNotFound)
}

func TestDeleteOwnerEmbeddingsOnlyTouchesOwner(t *testing.T) {
	h := newHarness(t)
	u := repotest.SeedUser(t, h.ctx, h.tx, "owner")
	topic := repotest.SeedTopic(t, h.ctx, h.tx, u.ID)
	msg := repotest.SeedMessage(t, h.ctx, h.tx, topic.ID, &u.ID, nil)
	repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.TopicOwner(topic.ID), 1)
	repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.TopicOwner(topic.ID), 2)
	keep := repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.MessageOwner(msg.ID), 3)

	n, err := h.knowledge().DeleteOwnerEmbeddings(h.ctx, knowledge.TopicOwner(topic.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(1), h.count(t, "message_embeddings", "id = ?", keep.ID))
}

func TestDeleteKnowledgeRecordCascadesExamples(t *testing.T) {
	h := newHarness(t)
	u := repotest.SeedUser(t, h.ctx, h.tx, "record")
	rec := repotest.SeedKnowledgeRecord(t, h.ctx, h.tx, u.ID)
	ex := repotest.SeedMessageExample(t, h.ctx, h.tx, rec.ID)
	repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.ExampleOwner(ex.ID), 1)

	res, err := h.knowledge().DeleteKnowledgeRecord(h.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted["user_knowledge"])
	assert.Equal(t, int64(1), res.Deleted["user_message_examples"])
	assert.Equal(t, int64(1), res.Deleted["message_embeddings"])
	assert.Equal(t, int64(1), h.count(t, "users", "id = ?", u.ID))
}

func TestAttachEmbeddingRollsBackOnCommitFailure(t *testing.T) {
	h := newHarness(t)
	u := repotest.SeedUser(t, h.ctx, h.tx, "rollback")
	topic := repotest.SeedTopic(t, h.ctx, h.tx, u.ID)

	runner := &aggtest.InjectedTxRunner{DB: h.tx, FailCommit: errors.New("commit lost")}
	base := h.base
	base.Runner = runner
	agg := aggregates.NewKnowledgeAggregate(aggregates.KnowledgeAggregateDeps{
		Base:       base,
		Topics:     repos.NewTopicRepo(h.tx, h.log),
		Messages:   repos.NewMessageRepo(h.tx, h.log),
		Records:    repos.NewKnowledgeRecordRepo(h.tx, h.log),
		Examples:   repos.NewMessageExampleRepo(h.tx, h.log),
		Embeddings: repos.NewMessageEmbeddingRepo(h.tx, h.log),
	})

	_, err := agg.AttachEmbedding(h.ctx, domainagg.AttachEmbeddingInput{
		Owner: knowledge.TopicOwner(topic.ID), Content: "lost", Vector: repotest.Vector(1),
	})
	require.Error(t, err)
	assert.Equal(t, 1, runner.RollbackCalls)
	assert.Equal(t, int64(0), h.count(t, "message_embeddings", "topic_id = ?", topic.ID))
	assert.Equal(t, []string{"internal"}, h.hooks.Statuses("Knowledge.AttachEmbedding"))
}

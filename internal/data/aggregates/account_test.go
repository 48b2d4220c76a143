package aggregates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repotest "github.com/yungbote/forumcore/internal/data/repos/testutil"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/domain/user"
)

func TestRegisterUserNormalizesAndDefaults(t *testing.T) {
	h := newHarness(t)
	name := repotest.Unique("alice")

	u, err := h.account().RegisterUser(h.ctx, domainagg.RegisterUserInput{
		Username:     "  " + name + " ",
		Email:        "  " + name + "@EXAMPLE.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	assert.Equal(t, name, u.Username)
	assert.Equal(t, name+"@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, user.StatusPending, u.Status)
	assert.Equal(t, int64(1), h.count(t, "user_status", "user_id = ?", u.ID))
	assert.Equal(t, []string{"success"}, h.hooks.Statuses("Account.RegisterUser"))
}

func TestRegisterUserRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	agg := h.account()

	_, err := agg.RegisterUser(h.ctx, domainagg.RegisterUserInput{Username: "x", Email: "", PasswordHash: "h"})
	assert.ErrorIs(t, err, domainagg.ErrValidation)

	_, err = agg.RegisterUser(h.ctx, domainagg.RegisterUserInput{
		Username: repotest.Unique("bob"), Email: repotest.Unique("bob") + "@example.com", PasswordHash: "h",
		Role: user.Role("wizard"),
	})
	assert.ErrorIs(t, err, domainagg.ErrValidation)
}

func TestRegisterUserUniqueness(t *testing.T) {
	h := newHarness(t)
	agg := h.account()
	name := repotest.Unique("carol")

	_, err := agg.RegisterUser(h.ctx, domainagg.RegisterUserInput{Username: name, Email: name + "@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = agg.RegisterUser(h.ctx, domainagg.RegisterUserInput{Username: name, Email: "other-" + name + "@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domainagg.ErrUniquenessViolation)

	_, err = agg.RegisterUser(h.ctx, domainagg.RegisterUserInput{Username: "other-" + name, Email: name + "@EXAMPLE.COM", PasswordHash: "h"})
	assert.ErrorIs(t, err, domainagg.ErrUniquenessViolation)
}

func TestDeleteUserCascadesOwnedRows(t *testing.T) {
	h := newHarness(t)
	u := repotest.SeedUser(t, h.ctx, h.tx, "dora")
	other := repotest.SeedUser(t, h.ctx, h.tx, "eve")

	topic := repotest.SeedTopic(t, h.ctx, h.tx, u.ID)
	msg := repotest.SeedMessage(t, h.ctx, h.tx, topic.ID, &u.ID, nil)
	repotest.SeedEmbedding(t, h.ctx, h.tx, knowledge.MessageOwner(msg.ID), 1)

	otherTopic := repotest.SeedTopic(t, h.ctx, h.tx, other.ID)
	reply := repotest.SeedMessage(t, h.ctx, h.tx, otherTopic.ID, &u.ID, nil)
	repotest.SeedDocument(t, h.ctx, h.tx, u.ID, nil)

	res, err := h.account().DeleteUser(h.ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Deleted["users"])
	assert.Equal(t, int64(1), res.Deleted["topics"])
	assert.Equal(t, int64(1), res.Deleted["documents"])
	assert.Equal(t, int64(0), h.count(t, "users", "id = ?", u.ID))
	assert.Equal(t, int64(0), h.count(t, "message_embeddings", "message_id = ?", msg.ID))

	// messages elsewhere survive with the author detached
	assert.Equal(t, int64(1), h.count(t, "messages", "id = ? AND user_id IS NULL", reply.ID))
	assert.Equal(t, int64(1), h.hooks.Deleted["topics"])
}

func TestDeleteUserMissing(t *testing.T) {
	h := newHarness(t)
	_, err := h.account().DeleteUser(h.ctx, 987654)
	assert.ErrorIs(t, err, domainagg.ErrNotFound)
}

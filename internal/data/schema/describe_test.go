package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeCoversEveryTable(t *testing.T) {
	cat, err := Describe()
	require.NoError(t, err)
	require.Len(t, cat.Tables, len(Tables))
	for _, name := range TableNames() {
		_, ok := cat.Table(name)
		assert.True(t, ok, "missing table %s", name)
	}
}

func TestDescribeRuleColumnsExist(t *testing.T) {
	cat, err := Describe()
	require.NoError(t, err)
	for _, r := range Rules {
		tbl, ok := cat.Table(r.Child)
		require.True(t, ok, r.String())
		col, ok := tbl.Column(r.Column)
		require.True(t, ok, "rule %s: column missing", r)
		if r.Policy == SetNull {
			assert.True(t, col.Nullable, "rule %s: set-null column must be nullable", r)
		}
	}
}

func TestDescribeMessageEmbeddingConstraints(t *testing.T) {
	cat, err := Describe()
	require.NoError(t, err)
	tbl, ok := cat.Table("message_embeddings")
	require.True(t, ok)

	for _, name := range []string{"message_id", "topic_id", "user_message_example_id"} {
		col, ok := tbl.Column(name)
		require.True(t, ok, name)
		assert.True(t, col.Nullable, name)
	}
	require.Len(t, tbl.Checks, 1)
	assert.Equal(t, "chk_message_embedding_single_owner", tbl.Checks[0].Name)
	assert.Contains(t, tbl.Checks[0].Expression, "user_message_example_id IS NULL")
	assert.Len(t, tbl.ForeignKeys, 3)
}

func TestDescribeUniqueness(t *testing.T) {
	cat, err := Describe()
	require.NoError(t, err)

	users, _ := cat.Table("users")
	for _, name := range []string{"username", "email"} {
		col, ok := users.Column(name)
		require.True(t, ok)
		assert.True(t, col.Unique, name)
	}

	pair, _ := cat.Table("mentor_mentee")
	var found bool
	for _, idx := range pair.Indexes {
		if idx.Name == "uq_mentor_mentee_pair" {
			found = true
			assert.True(t, idx.Unique)
			assert.Equal(t, []string{"mentor_id", "mentee_id"}, idx.Columns)
		}
	}
	assert.True(t, found, "mentor/mentee pair index missing")

	edges, _ := cat.Table("document_children")
	var pks []string
	for _, c := range edges.Columns {
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	assert.Equal(t, []string{"parent_id", "child_id"}, pks)
}

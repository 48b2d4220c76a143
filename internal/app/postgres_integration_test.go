package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yungbote/forumcore/internal/app"
	"github.com/yungbote/forumcore/internal/data/db"
	"github.com/yungbote/forumcore/internal/data/repos/testutil"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

func startPostgres(t *testing.T) *app.App {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("pgvector/pgvector:pg16"),
		tcPostgres.WithDatabase("forumcore"),
		tcPostgres.WithUsername("forumcore"),
		tcPostgres.WithPassword("forumcore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	a, err := app.NewWithConfig(ctx, logger.Nop(), app.Config{
		DB: db.Config{
			Driver:          db.DriverPostgres,
			DatabaseURL:     dsn,
			MaxOpenConns:    8,
			MaxIdleConns:    4,
			ConnMaxLifetime: time.Minute,
			SlowThreshold:   time.Second,
		},
		MigrateOnStart: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func TestPostgresEnforcesSchema(t *testing.T) {
	a := startPostgres(t)
	ctx := context.Background()
	gdb := a.DB.DB()

	u := testutil.SeedUser(t, ctx, gdb, testutil.Unique("pg"))
	topic := testutil.SeedTopic(t, ctx, gdb, u.ID)
	msg := testutil.SeedMessage(t, ctx, gdb, topic.ID, &u.ID, nil)
	testutil.SeedEmbedding(t, ctx, gdb, knowledge.MessageOwner(msg.ID), 1)

	t.Run("single owner check", func(t *testing.T) {
		err := gdb.WithContext(ctx).Exec(
			`INSERT INTO message_embeddings (message_id, topic_id, content, embedding, created_at) VALUES (?, ?, 'x', ?, NOW())`,
			msg.ID, topic.ID, testutil.Vector(2),
		).Error
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chk_message_embedding_single_owner")
	})

	t.Run("foreign keys cascade without the engine", func(t *testing.T) {
		require.NoError(t, gdb.WithContext(ctx).Exec(`DELETE FROM topics WHERE id = ?`, topic.ID).Error)
		assert.Zero(t, testutil.Count(t, gdb, "messages", "topic_id = ?", topic.ID))
		assert.Zero(t, testutil.Count(t, gdb, "message_embeddings", "message_id = ?", msg.ID))
	})
}

func TestPostgresConcurrentEdgesStayAcyclic(t *testing.T) {
	a := startPostgres(t)
	ctx := context.Background()
	gdb := a.DB.DB()

	u := testutil.SeedUser(t, ctx, gdb, testutil.Unique("pg"))
	x := testutil.SeedDocument(t, ctx, gdb, u.ID, nil)
	y := testutil.SeedDocument(t, ctx, gdb, u.ID, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = a.Aggregates.Documents.AddGraphEdge(ctx, x.ID, y.ID)
	}()
	go func() {
		defer wg.Done()
		errs[1] = a.Aggregates.Documents.AddGraphEdge(ctx, y.ID, x.ID)
	}()
	wg.Wait()

	var ok, cycles int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domainagg.IsCode(err, domainagg.CodeCycle):
			cycles++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, int64(1), testutil.Count(t, gdb, "document_children",
		"(parent_id = ? AND child_id = ?) OR (parent_id = ? AND child_id = ?)", x.ID, y.ID, y.ID, x.ID))
}

package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/forumcore/internal/data/db"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/forumcore-test.db")
	t.Setenv("DB_MIGRATE_ON_START", "true")
	t.Setenv("OTEL_ENABLED", "false")

	cfg := LoadConfig(logger.Nop())
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/forumcore-test.db", cfg.DB.SQLitePath)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.Otel.Enabled)
}

func TestNewWithConfigWiresAggregates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := Config{
		DB: db.Config{
			Driver:          db.DriverSQLite,
			SQLitePath:      "file:app_wiring?mode=memory&cache=shared",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
		},
		MigrateOnStart: true,
	}
	a, err := NewWithConfig(ctx, logger.Nop(), cfg)
	require.NoError(t, err)
	defer a.Close(ctx)

	for _, agg := range []domainagg.Aggregate{
		a.Aggregates.Account, a.Aggregates.Forum, a.Aggregates.Knowledge, a.Aggregates.Documents,
		a.Aggregates.QuizAttempt, a.Aggregates.CourseProgress, a.Aggregates.Mentorship,
	} {
		require.NotNil(t, agg)
		assert.True(t, agg.Contract().RequiresAggregateOwnedTx())
	}

	u, err := a.Aggregates.Account.RegisterUser(ctx, domainagg.RegisterUserInput{
		Username: "wired", Email: "wired@example.com", PasswordHash: "h",
	})
	require.NoError(t, err)
	_, err = a.Aggregates.Account.RegisterUser(ctx, domainagg.RegisterUserInput{
		Username: "wired", Email: "other@example.com", PasswordHash: "h",
	})
	require.ErrorIs(t, err, domainagg.ErrUniquenessViolation)

	res, err := a.Aggregates.Account.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted["users"])

	// both outcomes of RegisterUser and the delete show up as histogram series
	assert.Equal(t, 3, testutil.CollectAndCount(a.Metrics.Registry(), "forumcore_aggregate_operation_duration_seconds"))
}

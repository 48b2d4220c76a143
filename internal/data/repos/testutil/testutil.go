package testutil

import (
	"fmt"
	"os"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/forumcore/internal/data/db"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	dbSeq atomic.Int64
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database. With TEST_POSTGRES_DSN set every test shares
// one Postgres database; otherwise each test gets a private in-memory SQLite.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return sharedPostgres(tb, dsn)
	}
	return freshSQLite(tb)
}

func sharedPostgres(tb testing.TB, dsn string) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		pgDB, pgErr = OpenPostgres(tb, dsn)
	})
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

// OpenPostgres opens and fully migrates a Postgres database.
func OpenPostgres(tb testing.TB, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		return nil, err
	}
	if err := migrate(tb, db); err != nil {
		return nil, err
	}
	return db, nil
}

func freshSQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := fmt.Sprintf("%s_%d", unsafeName.ReplaceAllString(tb.Name(), "_"), dbSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("unwrap sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate(tb, db); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func migrate(tb testing.TB, db *gorm.DB) error {
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		return err
	}
	if err := dbpkg.EnsureConstraints(db.Statement.Context, db, Logger(tb)); err != nil {
		return err
	}
	return dbpkg.EnsureIndexes(db.Statement.Context, db)
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

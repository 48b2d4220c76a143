package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/schema"
	types "github.com/yungbote/forumcore/internal/domain"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// EnsureConstraints adds one foreign key per schema rule. SQLite cannot add
// constraints to existing tables; there the cascade engine is the only enforcement.
func EnsureConstraints(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("cascade policy: %w", err)
	}
	if !isPostgres(db) {
		log.Debug("skipping foreign keys", "dialect", db.Dialector.Name())
		return nil
	}
	tx := db.WithContext(ctx)
	for _, r := range schema.Rules {
		var n int64
		if err := tx.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, r.ConstraintName()).Scan(&n).Error; err != nil {
			return fmt.Errorf("lookup %s: %w", r.ConstraintName(), err)
		}
		if n > 0 {
			continue
		}
		if err := tx.Exec(r.ForeignKeySQL()).Error; err != nil {
			return fmt.Errorf("create %s: %w", r.ConstraintName(), err)
		}
		log.Info("foreign key created", "constraint", r.ConstraintName(), "on_delete", r.Policy.OnDelete())
	}
	return nil
}

// EnsureIndexes creates the indexes GORM tags cannot express.
func EnsureIndexes(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_documents_roots
		ON documents (user_id) WHERE parent_id IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_documents_roots: %w", err)
	}
	if !isPostgres(db) {
		return nil
	}
	if err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_message_embeddings_vector
		ON message_embeddings USING hnsw (embedding vector_cosine_ops);
	`).Error; err != nil {
		return fmt.Errorf("create idx_message_embeddings_vector: %w", err)
	}
	if err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_embeddings_vector
		ON embeddings USING hnsw (embedding vector_cosine_ops);
	`).Error; err != nil {
		return fmt.Errorf("create idx_embeddings_vector: %w", err)
	}
	return nil
}

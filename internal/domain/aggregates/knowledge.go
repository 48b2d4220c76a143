package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/yungbote/forumcore/internal/domain/knowledge"
)

var KnowledgeAggregateContract = Contract{
	Name:             "Knowledge.KnowledgeAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns message embeddings; every row references exactly one owner and dies with it.",
}

// KnowledgeAggregate owns the polymorphic embedding index and persona records.
//
// Owner violations fail with CodeInvalidOwner and are never repaired.
type KnowledgeAggregate interface {
	Aggregate

	AttachEmbedding(ctx context.Context, in AttachEmbeddingInput) (*knowledge.MessageEmbedding, error)
	UpdateEmbedding(ctx context.Context, in UpdateEmbeddingInput) (*knowledge.MessageEmbedding, error)

	// DeleteOwnerEmbeddings removes every embedding of owner and returns the count.
	DeleteOwnerEmbeddings(ctx context.Context, owner knowledge.OwnerRef) (int64, error)

	// DeleteMessageExample removes the example and its embeddings. The profile stays.
	DeleteMessageExample(ctx context.Context, exampleID uint) (DeleteResult, error)
	DeleteKnowledgeRecord(ctx context.Context, recordID uuid.UUID) (DeleteResult, error)
}

type AttachEmbeddingInput struct {
	Owner    knowledge.OwnerRef
	Content  string
	Vector   pgvector.Vector
	Metadata map[string]any
}

// UpdateEmbeddingInput changes only the non-nil fields.
type UpdateEmbeddingInput struct {
	ID       uint
	Owner    *knowledge.OwnerRef
	Content  *string
	Vector   *pgvector.Vector
	Metadata map[string]any
}

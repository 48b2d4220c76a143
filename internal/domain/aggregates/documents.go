package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/forumcore/internal/domain/documents"
)

var DocumentGraphAggregateContract = Contract{
	Name:             "Documents.DocumentGraphAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Sole writer of parent_id and document_children; no document reaches itself through either hierarchy.",
}

// DocumentGraphAggregate owns the document tree and graph.
//
// Hierarchy failures carry CodeCycle or CodeSelfParent. Concurrent edge writes
// over overlapping subgraphs serialize on row locks.
type DocumentGraphAggregate interface {
	Aggregate

	// CreateDocument stores the document and its first version.
	CreateDocument(ctx context.Context, in CreateDocumentInput) (*documents.Document, error)

	// UpdateDocument bumps the version and appends a version row.
	UpdateDocument(ctx context.Context, in UpdateDocumentInput) (*documents.Document, error)

	// SetTreeParent moves doc under parent, or makes it a root when parent is nil.
	SetTreeParent(ctx context.Context, docID uuid.UUID, parentID *uuid.UUID) (*documents.Document, error)

	// AddGraphEdge is a no-op for an existing edge.
	AddGraphEdge(ctx context.Context, parentID, childID uuid.UUID) error
	RemoveGraphEdge(ctx context.Context, parentID, childID uuid.UUID) error

	// DeleteDocument removes the tree below doc and every graph edge touching a removed document.
	DeleteDocument(ctx context.Context, docID uuid.UUID) (DeleteResult, error)

	// GetAllChildren lists tree children, then graph-only children, each by id.
	GetAllChildren(ctx context.Context, docID uuid.UUID) ([]documents.Relative, error)
	GetAllParents(ctx context.Context, docID uuid.UUID) ([]documents.Relative, error)
	HasChildren(ctx context.Context, docID uuid.UUID) (bool, error)
}

type CreateDocumentInput struct {
	UserID      uint
	ParentID    *uuid.UUID
	Title       string
	Description string
	FilePath    string
	FileName    string
	FileSize    int64
	MimeType    string
	IsPublic    bool
}

// UpdateDocumentInput changes only the non-nil fields.
type UpdateDocumentInput struct {
	DocumentID     uuid.UUID
	EditorID       *uint
	Title          *string
	Description    *string
	FilePath       *string
	FileName       *string
	FileSize       *int64
	MimeType       *string
	IsPublic       *bool
	ChangesSummary string
}

package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

// Document sits in two hierarchies at once: the strict tree through ParentID and
// the many-to-many graph through document_children.
type Document struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	DocID            uuid.UUID        `gorm:"type:uuid;column:doc_id;not null;uniqueIndex" json:"doc_id"`
	UserID           uint             `gorm:"column:user_id;not null;index" json:"user_id"`
	ParentID         *uuid.UUID       `gorm:"type:uuid;column:parent_id;index" json:"parent_id,omitempty"`
	Title            string           `gorm:"column:title;size:255;not null" json:"title"`
	Description      string           `gorm:"column:description;type:text" json:"description,omitempty"`
	FilePath         string           `gorm:"column:file_path;size:500" json:"file_path,omitempty"`
	FileName         string           `gorm:"column:file_name;size:255" json:"file_name,omitempty"`
	FileSize         int64            `gorm:"column:file_size;not null;default:0" json:"file_size"`
	MimeType         string           `gorm:"column:mime_type;size:100" json:"mime_type,omitempty"`
	Version          int              `gorm:"column:version;not null;default:1" json:"version"`
	IsActive         bool             `gorm:"column:is_active;not null" json:"is_active"`
	IsPublic         bool             `gorm:"column:is_public;not null;default:false" json:"is_public"`
	ProcessingStatus ProcessingStatus `gorm:"column:processing_status;type:varchar(20);not null;default:'pending';index" json:"processing_status"`
	ProcessingError  string           `gorm:"column:processing_error;type:text" json:"processing_error,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DocID == uuid.Nil {
		d.DocID = uuid.New()
	}
	if d.Version <= 0 {
		d.Version = 1
	}
	return nil
}

// IsRoot reports whether the document has no tree parent.
func (d *Document) IsRoot() bool { return d.ParentID == nil }

// DocumentChild is one edge of the graph hierarchy. The composite key collapses duplicates.
type DocumentChild struct {
	ParentID  uuid.UUID `gorm:"type:uuid;column:parent_id;primaryKey" json:"parent_id"`
	ChildID   uuid.UUID `gorm:"type:uuid;column:child_id;primaryKey;index" json:"child_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DocumentChild) TableName() string { return "document_children" }

// DocumentVersion is an append-only snapshot of a document's metadata.
type DocumentVersion struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DocumentID     uuid.UUID `gorm:"type:uuid;column:document_id;not null;uniqueIndex:idx_document_version_number,priority:1" json:"document_id"`
	VersionNumber  int       `gorm:"column:version_number;not null;uniqueIndex:idx_document_version_number,priority:2" json:"version_number"`
	Title          string    `gorm:"column:title;size:255;not null" json:"title"`
	Description    string    `gorm:"column:description;type:text" json:"description,omitempty"`
	FilePath       string    `gorm:"column:file_path;size:500" json:"file_path,omitempty"`
	ChangesSummary string    `gorm:"column:changes_summary;type:text" json:"changes_summary,omitempty"`
	CreatedBy      *uint     `gorm:"column:created_by;index" json:"created_by,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (DocumentVersion) TableName() string { return "document_versions" }

// RelationKind tells whether a relative was reached through the tree or the graph.
type RelationKind string

const (
	RelationTree  RelationKind = "tree"
	RelationGraph RelationKind = "graph"
)

// Relative is one entry of a deduplicated child or parent listing.
type Relative struct {
	Document *Document
	Kind     RelationKind
}

package knowledge

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserKnowledgeRecord is the persona profile of a user, at most one per user.
type UserKnowledgeRecord struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uint           `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	CharacterID        *string        `gorm:"column:character_id;size:100;uniqueIndex" json:"character_id,omitempty"`
	Name               string         `gorm:"column:name;size:255;not null" json:"name"`
	Personality        string         `gorm:"column:personality;type:text" json:"personality,omitempty"`
	Background         string         `gorm:"column:background;type:text" json:"background,omitempty"`
	Expertise          datatypes.JSON `gorm:"type:jsonb;column:expertise" json:"expertise,omitempty"`
	CommunicationStyle string         `gorm:"column:communication_style;type:text" json:"communication_style,omitempty"`
	Preferences        datatypes.JSON `gorm:"type:jsonb;column:preferences" json:"preferences,omitempty"`
	FilePath           string         `gorm:"column:file_path;size:500" json:"file_path,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserKnowledgeRecord) TableName() string { return "user_knowledge" }

func (r *UserKnowledgeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UserMessageExample is a sample utterance of a profile. Its inline vectors are
// part of the row and are unrelated to message_embeddings.
type UserMessageExample struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	ProfileID        uuid.UUID        `gorm:"type:uuid;column:profile_id;not null;index" json:"profile_id"`
	Context          string           `gorm:"column:context;type:text" json:"context,omitempty"`
	Content          string           `gorm:"column:content;type:text;not null" json:"content"`
	ThreadID         string           `gorm:"column:thread_id;size:100;index" json:"thread_id,omitempty"`
	ReplyTo          string           `gorm:"column:reply_to;size:100" json:"reply_to,omitempty"`
	ContentEmbedding *pgvector.Vector `gorm:"column:content_embedding;type:vector(1536)" json:"-"`
	ContextEmbedding *pgvector.Vector `gorm:"column:context_embedding;type:vector(1536)" json:"-"`
	ExtraMetadata    datatypes.JSON   `gorm:"type:jsonb;column:extra_metadata" json:"extra_metadata,omitempty"`
	SourceFile       string           `gorm:"column:source_file;size:500" json:"source_file,omitempty"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
}

func (UserMessageExample) TableName() string { return "user_message_examples" }

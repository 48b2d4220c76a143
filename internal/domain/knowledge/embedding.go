package knowledge

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dimensions is the width of every stored vector column.
const Dimensions = 1536

// MessageEmbedding attaches a vector to exactly one of a message, a topic or a
// user message example.
type MessageEmbedding struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	MessageID            *uint           `gorm:"column:message_id;index;check:chk_message_embedding_single_owner,(CASE WHEN message_id IS NULL THEN 0 ELSE 1 END + CASE WHEN topic_id IS NULL THEN 0 ELSE 1 END + CASE WHEN user_message_example_id IS NULL THEN 0 ELSE 1 END) = 1" json:"message_id,omitempty"`
	TopicID              *uint           `gorm:"column:topic_id;index" json:"topic_id,omitempty"`
	UserMessageExampleID *uint           `gorm:"column:user_message_example_id;index" json:"user_message_example_id,omitempty"`
	Content              string          `gorm:"column:content;type:text;not null" json:"content"`
	Embedding            pgvector.Vector `gorm:"column:embedding;type:vector(1536);not null" json:"-"`
	ExtraMetadata        datatypes.JSON  `gorm:"type:jsonb;column:extra_metadata" json:"extra_metadata,omitempty"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`
}

func (MessageEmbedding) TableName() string { return "message_embeddings" }

// BeforeCreate rejects rows that do not carry exactly one owner.
// Update paths validate explicitly; GORM runs update hooks on an empty model for map updates.
func (e *MessageEmbedding) BeforeCreate(tx *gorm.DB) error {
	_, err := OwnerOf(e)
	return err
}

// Embedding is the general-purpose RAG store that is not tied to any owner.
type Embedding struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Content       string          `gorm:"column:content;type:text;not null" json:"content"`
	Embedding     pgvector.Vector `gorm:"column:embedding;type:vector(1536);not null" json:"-"`
	ExtraMetadata datatypes.JSON  `gorm:"type:jsonb;column:extra_metadata" json:"extra_metadata,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func (Embedding) TableName() string { return "embeddings" }

// OwnedVector is the search-ready projection of a MessageEmbedding.
type OwnedVector struct {
	ID        uint
	Embedding pgvector.Vector
	Content   string
}

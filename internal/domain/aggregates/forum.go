package aggregates

import (
	"context"

	"github.com/yungbote/forumcore/internal/domain/forum"
)

var ForumAggregateContract = Contract{
	Name:             "Forum.ForumAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns topic and reply-tree writes; parents stay inside their topic and reply trees stay acyclic.",
}

// ForumAggregate owns topic, message and category writes.
type ForumAggregate interface {
	Aggregate

	CreateTopic(ctx context.Context, in CreateTopicInput) (*forum.Topic, error)

	// CreateMessage rejects a parent that lives in another topic.
	CreateMessage(ctx context.Context, in CreateMessageInput) (*forum.Message, error)

	// ReparentMessage moves a message under another message of the same topic, or
	// to the top level when parentID is nil. Moving a message below its own reply fails with CodeCycle.
	ReparentMessage(ctx context.Context, messageID uint, parentID *uint) (*forum.Message, error)

	DeleteMessage(ctx context.Context, messageID uint) (DeleteResult, error)
	DeleteTopic(ctx context.Context, topicID uint) (DeleteResult, error)
	DeleteCategory(ctx context.Context, categoryID uint) (DeleteResult, error)
	DeleteSubcategory(ctx context.Context, subcategoryID uint) (DeleteResult, error)
}

type CreateTopicInput struct {
	UserID        uint
	CategoryID    *uint
	SubcategoryID *uint
	Title         string
	Description   string
	TaskType      forum.TaskType
}

type CreateMessageInput struct {
	TopicID    uint
	UserID     *uint
	ParentID   *uint
	AuthorName string
	Content    string
	Status     forum.MessageStatus
	TaskType   forum.TaskType
}

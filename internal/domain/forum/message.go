package forum

import "time"

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusApproved  MessageStatus = "approved"
	MessageStatusRejected  MessageStatus = "rejected"
	MessageStatusPublished MessageStatus = "published"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusPending, MessageStatusApproved, MessageStatusRejected, MessageStatusPublished:
		return true
	}
	return false
}

// Message is owned by its topic. ParentID, when set, must point at a message of the same topic.
type Message struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TopicID    uint          `gorm:"column:topic_id;not null;index:idx_message_topic_created,priority:1" json:"topic_id"`
	UserID     *uint         `gorm:"column:user_id;index" json:"user_id,omitempty"`
	ParentID   *uint         `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	AuthorName string        `gorm:"column:author_name;size:100" json:"author_name,omitempty"`
	Content    string        `gorm:"column:content;type:text;not null" json:"content"`
	Status     MessageStatus `gorm:"column:status;type:varchar(20);not null;default:'published';index" json:"status"`
	TaskType   TaskType      `gorm:"column:task_type;type:varchar(20);not null;default:'general'" json:"task_type"`
	CreatedAt  time.Time     `gorm:"not null;index:idx_message_topic_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`
}

func (Message) TableName() string { return "messages" }

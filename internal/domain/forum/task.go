package forum

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task records background generation state. The ids are loose references without foreign keys.
type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TaskID       string     `gorm:"column:task_id;size:100;not null;uniqueIndex" json:"task_id"`
	UserID       *uint      `gorm:"column:user_id;index" json:"user_id,omitempty"`
	TopicID      *uint      `gorm:"column:topic_id;index" json:"topic_id,omitempty"`
	ReplyTo      *uint      `gorm:"column:reply_to;index" json:"reply_to,omitempty"`
	MessageID    *uint      `gorm:"column:message_id;index" json:"message_id,omitempty"`
	TaskType     TaskType   `gorm:"column:task_type;type:varchar(20);not null;default:'general'" json:"task_type"`
	Context      string     `gorm:"column:context;type:text" json:"context,omitempty"`
	Question     string     `gorm:"column:question;type:text;not null" json:"question"`
	Status       TaskStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	Result       string     `gorm:"column:result;type:text" json:"result,omitempty"`
	ErrorMessage string     `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	Attempts     int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	MaxAttempts  int        `gorm:"column:max_attempts;not null;default:3" json:"max_attempts"`
	StartedAt    *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

package forum

import "time"

type TaskType string

const (
	TaskTypeGeneral     TaskType = "general"
	TaskTypeQuestion    TaskType = "question"
	TaskTypeExplanation TaskType = "explanation"
	TaskTypeSummary     TaskType = "summary"
)

// Topic is owned by its author. Category and subcategory are plain references.
type Topic struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CategoryID    *uint     `gorm:"column:category_id;index" json:"category_id,omitempty"`
	SubcategoryID *uint     `gorm:"column:subcategory_id;index" json:"subcategory_id,omitempty"`
	Title         string    `gorm:"column:title;size:255;not null" json:"title"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	TaskType      TaskType  `gorm:"column:task_type;type:varchar(20);not null;default:'general'" json:"task_type"`
	IsActive      bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string { return "topics" }

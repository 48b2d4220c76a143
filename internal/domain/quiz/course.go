package quiz

import (
	"time"

	"gorm.io/datatypes"
)

type QuizCourse struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CreatorID          *uint     `gorm:"column:creator_id;index" json:"creator_id,omitempty"`
	Title              string    `gorm:"column:title;size:255;not null" json:"title"`
	Description        string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Language           string    `gorm:"column:language;size:16;not null;default:'en'" json:"language"`
	Status             Status    `gorm:"column:status;type:varchar(16);not null;default:'draft'" json:"status"`
	IsSequential       bool      `gorm:"column:is_sequential;not null" json:"is_sequential"`
	CertificateEnabled bool      `gorm:"column:certificate_enabled;not null;default:false" json:"certificate_enabled"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizCourse) TableName() string { return "quiz_courses" }

type QuizCourseItem struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CourseID   uint `gorm:"column:course_id;not null;index:idx_course_item_order,priority:1" json:"course_id"`
	QuizID     uint `gorm:"column:quiz_id;not null;index" json:"quiz_id"`
	OrderIndex int  `gorm:"column:order_index;not null;default:0;index:idx_course_item_order,priority:2" json:"order_index"`
	IsRequired bool `gorm:"column:is_required;not null" json:"is_required"`
}

func (QuizCourseItem) TableName() string { return "quiz_course_items" }

type CourseProgress struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"column:user_id;not null;uniqueIndex:idx_course_progress_user_course,priority:1" json:"user_id"`
	CourseID             uint           `gorm:"column:course_id;not null;uniqueIndex:idx_course_progress_user_course,priority:2;index" json:"course_id"`
	StartedAt            time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	LastActivityAt       time.Time      `gorm:"column:last_activity_at;not null" json:"last_activity_at"`
	CompletedItemIDs     datatypes.JSON `gorm:"type:jsonb;column:completed_item_ids" json:"completed_item_ids,omitempty"`
	CurrentItemID        *uint          `gorm:"column:current_item_id;index" json:"current_item_id,omitempty"`
	IsCompleted          bool           `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletionPercentage float64        `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`
}

func (CourseProgress) TableName() string { return "quiz_course_progress" }

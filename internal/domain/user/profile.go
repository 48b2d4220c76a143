package user

import (
	"time"

	"gorm.io/datatypes"
)

type UserProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Experience  string    `gorm:"column:experience;type:text" json:"experience,omitempty"`
	Country     string    `gorm:"column:country;size:100" json:"country,omitempty"`
	City        string    `gorm:"column:city;size:100" json:"city,omitempty"`
	Language    string    `gorm:"column:language;size:8;not null;default:'en'" json:"language"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

type LearnMode string

const (
	LearnModeOnline  LearnMode = "online"
	LearnModeOffline LearnMode = "offline"
	LearnModeBoth    LearnMode = "both"
)

// Subject is a teaching offer published by a user.
type Subject struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"column:user_id;not null;index" json:"user_id"`
	Name        string        `gorm:"column:subject_name;not null" json:"subject_name"`
	Level       string        `gorm:"column:subject_level;not null" json:"subject_level"`
	Description string        `gorm:"column:subject_description;type:text" json:"subject_description,omitempty"`
	Language    string        `gorm:"column:subject_language;size:8;not null;default:'en'" json:"subject_language"`
	Price       int           `gorm:"column:price;not null" json:"price"`
	LearnMode   LearnMode     `gorm:"column:learn_mode;type:varchar(16);not null;default:'both'" json:"learn_mode"`
	Status      AccountStatus `gorm:"column:subject_status;type:varchar(20);not null;default:'pending';index" json:"subject_status"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subjects" }

// UserSchedule is the availability grid attached to a subject.
type UserSchedule struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SubjectID    uint           `gorm:"column:subject_id;not null;index" json:"subject_id"`
	Month        string         `gorm:"column:month;size:16;not null;default:'january'" json:"month"`
	WorkingDays  datatypes.JSON `gorm:"type:jsonb;column:working_days" json:"working_days,omitempty"`
	WorkingHours datatypes.JSON `gorm:"type:jsonb;column:working_hours" json:"working_hours,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

func (UserSchedule) TableName() string { return "user_schedule" }

// SubjectSchedule is a booking of subject hours by a user.
type SubjectSchedule struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	SubjectID   uint           `gorm:"column:subject_id;not null;index" json:"subject_id"`
	DateAt      time.Time      `gorm:"column:date_at;not null" json:"date_at"`
	BookedHours datatypes.JSON `gorm:"type:jsonb;column:booked_hours" json:"booked_hours,omitempty"`
	Status      string         `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (SubjectSchedule) TableName() string { return "subject_schedule" }

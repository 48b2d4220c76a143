package mentor

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Terminal statuses close the pair for good.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

type Initiator string

const (
	InitiatedByMentor Initiator = "mentor"
	InitiatedByMentee Initiator = "mentee"
)

func (i Initiator) Valid() bool {
	return i == InitiatedByMentor || i == InitiatedByMentee
}

type MentorMentee struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	MentorID            uint       `gorm:"column:mentor_id;not null;uniqueIndex:uq_mentor_mentee_pair,priority:1;index:idx_mentor_status,priority:1" json:"mentor_id"`
	MenteeID            uint       `gorm:"column:mentee_id;not null;uniqueIndex:uq_mentor_mentee_pair,priority:2;index:idx_mentee_status,priority:1" json:"mentee_id"`
	Status              Status     `gorm:"column:status;type:varchar(16);not null;default:'pending';index:idx_mentor_status,priority:2;index:idx_mentee_status,priority:2" json:"status"`
	InitiatedBy         Initiator  `gorm:"column:initiated_by;type:varchar(8);not null" json:"initiated_by"`
	SubscribeToQuizzes  bool       `gorm:"column:subscribe_to_quizzes;not null" json:"subscribe_to_quizzes"`
	SubscribeToCourses  bool       `gorm:"column:subscribe_to_courses;not null" json:"subscribe_to_courses"`
	SubscribeToSubjects bool       `gorm:"column:subscribe_to_subjects;not null" json:"subscribe_to_subjects"`
	MentorNotes         string     `gorm:"column:mentor_notes;type:text" json:"mentor_notes,omitempty"`
	MenteeNotes         string     `gorm:"column:mentee_notes;type:text" json:"mentee_notes,omitempty"`
	AcceptedAt          *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	CompletedAt         *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

func (MentorMentee) TableName() string { return "mentor_mentee" }

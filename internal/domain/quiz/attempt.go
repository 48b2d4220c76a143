package quiz

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptAbandoned
}

// QuizProgress is one attempt of a user at a quiz.
type QuizProgress struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"column:user_id;not null;index:idx_quiz_progress_user_quiz,priority:1" json:"user_id"`
	QuizID           uint           `gorm:"column:quiz_id;not null;index:idx_quiz_progress_user_quiz,priority:2" json:"quiz_id"`
	Status           AttemptStatus  `gorm:"column:status;type:varchar(16);not null;default:'in_progress';index" json:"status"`
	StartedAt        time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CurrentIndex     int            `gorm:"column:current_index;not null;default:0" json:"current_index"`
	Answers          datatypes.JSON `gorm:"type:jsonb;column:answers" json:"answers,omitempty"`
	Score            *float64       `gorm:"column:score" json:"score,omitempty"`
	ShowExplanations bool           `gorm:"column:show_explanations;not null;default:false" json:"show_explanations"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuizProgress) TableName() string { return "quiz_progress" }

// UserQuizResult is the immutable snapshot written when an attempt completes.
type UserQuizResult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	QuizID           uint           `gorm:"column:quiz_id;not null;index" json:"quiz_id"`
	AttemptID        *uint          `gorm:"column:attempt_id;uniqueIndex" json:"attempt_id,omitempty"`
	TotalQuestions   int            `gorm:"column:total_questions;not null" json:"total_questions"`
	CorrectAnswers   int            `gorm:"column:correct_answers;not null" json:"correct_answers"`
	TotalPoints      int            `gorm:"column:total_points;not null" json:"total_points"`
	EarnedPoints     int            `gorm:"column:earned_points;not null" json:"earned_points"`
	Percentage       float64        `gorm:"column:percentage;not null" json:"percentage"`
	Passed           bool           `gorm:"column:passed;not null;default:false" json:"passed"`
	TimeSpentSeconds *int           `gorm:"column:time_spent_seconds" json:"time_spent_seconds,omitempty"`
	ResultPayload    datatypes.JSON `gorm:"type:jsonb;column:result_payload" json:"result_payload,omitempty"`
	CompletedAt      time.Time      `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
}

func (UserQuizResult) TableName() string { return "user_quiz_results" }

// ResultPayload is the JSON stored in user_quiz_results.result_payload.
type ResultPayload struct {
	QuizID         uint                       `json:"quiz_id"`
	TotalQuestions int                        `json:"total_questions"`
	CorrectAnswers int                        `json:"correct_answers"`
	TotalPoints    int                        `json:"total_points"`
	EarnedPoints   int                        `json:"earned_points"`
	Percentage     float64                    `json:"percentage"`
	Answers        map[string]AnswerSubmitted `json:"answers"`
}

// AnswerSubmitted is the value stored per question id in QuizProgress.Answers.
type AnswerSubmitted struct {
	AnswerIDs []string `json:"answer_ids,omitempty"`
	Text      string   `json:"text,omitempty"`
	Correct   *bool    `json:"correct,omitempty"`
}

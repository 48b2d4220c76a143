package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTextInput      QuestionType = "text_input"
	QuestionImage          QuestionType = "image"
	QuestionFormula        QuestionType = "formula"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

type ResultMode string

const (
	ResultPerQuestion  ResultMode = "per_question"
	ResultFinalSummary ResultMode = "final_summary"
	ResultBoth         ResultMode = "both"
)

type Answer struct {
	ID          string `json:"id,omitempty"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
	Points      int    `json:"points"`
}

type Question struct {
	ID               string       `json:"id"`
	Title            string       `json:"title,omitempty"`
	Text             string       `json:"text"`
	Type             QuestionType `json:"type"`
	Description      string       `json:"description,omitempty"`
	ImageURL         string       `json:"image_url,omitempty"`
	FormulaTemplate  string       `json:"formula_template,omitempty"`
	Points           int          `json:"points"`
	TimeLimitSeconds *int         `json:"time_limit_seconds,omitempty"`
	ShuffleAnswers   bool         `json:"shuffle_answers"`
	Answers          []Answer     `json:"answers"`
}

// Payload is the JSON document stored in quizzes.questions.
type Payload struct {
	Questions []Question `json:"questions"`
}

type Quiz struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	CreatorID             *uint          `gorm:"column:creator_id;index" json:"creator_id,omitempty"`
	Slug                  string         `gorm:"column:slug;size:255;not null;uniqueIndex" json:"slug"`
	Title                 string         `gorm:"column:title;size:255;not null" json:"title"`
	Description           string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Language              string         `gorm:"column:language;size:16;not null;default:'en'" json:"language"`
	Status                Status         `gorm:"column:status;type:varchar(16);not null;default:'draft';index" json:"status"`
	ResultMode            ResultMode     `gorm:"column:result_mode;type:varchar(16);not null;default:'final_summary'" json:"result_mode"`
	TimeLimitMinutes      *int           `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	PassingScore          float64        `gorm:"column:passing_score;not null" json:"passing_score"`
	MaxAttempts           int            `gorm:"column:max_attempts;not null" json:"max_attempts"`
	ShowCorrectAnswers    bool           `gorm:"column:show_correct_answers;not null" json:"show_correct_answers"`
	SendEmailOnCompletion bool           `gorm:"column:send_email_on_completion;not null;default:false" json:"send_email_on_completion"`
	RandomizeQuestions    bool           `gorm:"column:randomize_questions;not null;default:false" json:"randomize_questions"`
	Questions             datatypes.JSON `gorm:"type:jsonb;column:questions" json:"questions,omitempty"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }

// DecodePayload parses the stored question list. An empty column is an empty quiz.
func (q *Quiz) DecodePayload() (Payload, error) {
	var p Payload
	if q == nil || len(q.Questions) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(q.Questions, &p); err != nil {
		return p, fmt.Errorf("decode quiz %d questions: %w", q.ID, err)
	}
	return p, nil
}

func EncodePayload(p Payload) (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

const (
	DefaultPassingScore = 70.0
	DefaultMaxAttempts  = 3
)

// NewQuiz returns a draft quiz carrying the platform defaults.
// MaxAttempts <= 0 means unlimited attempts.
func NewQuiz(slug, title string) *Quiz {
	return &Quiz{
		Slug:               slug,
		Title:              title,
		Language:           "en",
		Status:             StatusDraft,
		ResultMode:         ResultFinalSummary,
		PassingScore:       DefaultPassingScore,
		MaxAttempts:        DefaultMaxAttempts,
		ShowCorrectAnswers: true,
	}
}

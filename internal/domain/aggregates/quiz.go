package aggregates

import (
	"context"

	"github.com/yungbote/forumcore/internal/domain/quiz"
)

var QuizAttemptAggregateContract = Contract{
	Name:             "Quiz.QuizAttemptAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns attempt transitions in_progress -> completed|abandoned and the single result row per attempt.",
}

// QuizAttemptAggregate owns the quiz attempt state machine.
//
// Transitions out of a terminal attempt fail with CodeInvalidState; starting
// beyond the quiz limit fails with CodeMaxAttemptsExceeded.
type QuizAttemptAggregate interface {
	Aggregate

	StartAttempt(ctx context.Context, userID, quizID uint) (*quiz.QuizProgress, error)
	RecordAnswer(ctx context.Context, in RecordAnswerInput) (*quiz.QuizProgress, error)
	SubmitAttempt(ctx context.Context, attemptID uint) (SubmitAttemptResult, error)
	AbandonAttempt(ctx context.Context, attemptID uint) (*quiz.QuizProgress, error)
}

type RecordAnswerInput struct {
	AttemptID  uint
	QuestionID string
	Answer     quiz.AnswerSubmitted
}

type SubmitAttemptResult struct {
	Attempt *quiz.QuizProgress
	Result  *quiz.UserQuizResult
}

package aggregates

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/quiz"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type QuizAttemptAggregateDeps struct {
	Base BaseDeps

	Users    repos.UserRepo
	Quizzes  repos.QuizRepo
	Attempts repos.QuizProgressRepo
	Results  repos.QuizResultRepo
}

type quizAttemptAggregate struct {
	deps QuizAttemptAggregateDeps
}

func NewQuizAttemptAggregate(deps QuizAttemptAggregateDeps) domainagg.QuizAttemptAggregate {
	deps.Base = deps.Base.withDefaults()
	return &quizAttemptAggregate{deps: deps}
}

func (a *quizAttemptAggregate) Contract() domainagg.Contract {
	return domainagg.QuizAttemptAggregateContract
}

func (a *quizAttemptAggregate) StartAttempt(ctx context.Context, userID, quizID uint) (*quiz.QuizProgress, error) {
	const op = "Quiz.StartAttempt"
	if userID == 0 || quizID == 0 {
		return nil, validation(op, "missing user_id or quiz_id")
	}

	var out *quiz.QuizProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// the user row lock serializes concurrent starts against the attempt limit
		if _, err := a.deps.Users.LockByID(dbc, userID); err != nil {
			return err
		}
		q, err := a.deps.Quizzes.GetByID(dbc, quizID)
		if err != nil {
			return err
		}
		if q == nil {
			return notFound(op, "quiz", quizID)
		}
		if q.Status == quiz.StatusArchived {
			return invalidState(op, "quiz is archived")
		}
		if q.MaxAttempts > 0 {
			n, err := a.deps.Attempts.CountAttempts(dbc, userID, quizID)
			if err != nil {
				return err
			}
			if n >= int64(q.MaxAttempts) {
				return domainagg.NewError(domainagg.CodeMaxAttemptsExceeded, op,
					"attempt limit reached", nil)
			}
		}
		row := &quiz.QuizProgress{
			UserID:       userID,
			QuizID:       quizID,
			Status:       quiz.AttemptInProgress,
			StartedAt:    time.Now().UTC(),
			CurrentIndex: 0,
			Answers:      datatypes.JSON("{}"),
		}
		if err := a.deps.Attempts.Create(dbc, row); err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *quizAttemptAggregate) RecordAnswer(ctx context.Context, in domainagg.RecordAnswerInput) (*quiz.QuizProgress, error) {
	const op = "Quiz.RecordAnswer"
	questionID := strings.TrimSpace(in.QuestionID)
	if in.AttemptID == 0 || questionID == "" {
		return nil, validation(op, "missing attempt_id or question_id")
	}

	var out *quiz.QuizProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		attempt, _, payload, err := a.lockOpenAttempt(dbc, op, in.AttemptID)
		if err != nil {
			return err
		}
		pos := questionPosition(payload, questionID)
		if pos < 0 {
			return validation(op, "unknown question "+questionID)
		}
		answers, err := decodeAnswers(attempt.Answers)
		if err != nil {
			return err
		}
		ans := in.Answer
		ans.Correct = nil
		answers[questionID] = ans
		raw, err := json.Marshal(answers)
		if err != nil {
			return err
		}
		next := attempt.CurrentIndex
		if pos+1 > next {
			next = pos + 1
		}
		if err := a.deps.Attempts.UpdateFields(dbc, attempt.ID, map[string]interface{}{
			"answers":       datatypes.JSON(raw),
			"current_index": next,
		}); err != nil {
			return err
		}
		attempt.Answers = datatypes.JSON(raw)
		attempt.CurrentIndex = next
		out = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *quizAttemptAggregate) SubmitAttempt(ctx context.Context, attemptID uint) (domainagg.SubmitAttemptResult, error) {
	const op = "Quiz.SubmitAttempt"
	var out domainagg.SubmitAttemptResult
	if attemptID == 0 {
		return out, validation(op, "missing attempt_id")
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		attempt, q, payload, err := a.lockOpenAttempt(dbc, op, attemptID)
		if err != nil {
			return err
		}
		answers, err := decodeAnswers(attempt.Answers)
		if err != nil {
			return err
		}
		score := scoreAttempt(payload, answers)

		now := time.Now().UTC()
		pct := score.Percentage
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "quiz_progress", attempt.ID,
			[]string{string(quiz.AttemptInProgress)},
			map[string]any{
				"status":       string(quiz.AttemptCompleted),
				"completed_at": now,
				"score":        pct,
				"updated_at":   now,
			})
		if err != nil {
			return err
		}
		if !ok {
			return invalidState(op, "attempt is no longer in progress")
		}
		attempt.Status = quiz.AttemptCompleted
		attempt.CompletedAt = &now
		attempt.Score = &pct
		attempt.UpdatedAt = now

		payloadJSON, err := json.Marshal(quiz.ResultPayload{
			QuizID:         q.ID,
			TotalQuestions: score.TotalQuestions,
			CorrectAnswers: score.CorrectAnswers,
			TotalPoints:    score.TotalPoints,
			EarnedPoints:   score.EarnedPoints,
			Percentage:     pct,
			Answers:        score.Graded,
		})
		if err != nil {
			return err
		}
		spent := int(now.Sub(attempt.StartedAt).Seconds())
		if spent < 0 {
			spent = 0
		}
		id := attempt.ID
		result := &quiz.UserQuizResult{
			UserID:           attempt.UserID,
			QuizID:           attempt.QuizID,
			AttemptID:        &id,
			TotalQuestions:   score.TotalQuestions,
			CorrectAnswers:   score.CorrectAnswers,
			TotalPoints:      score.TotalPoints,
			EarnedPoints:     score.EarnedPoints,
			Percentage:       pct,
			Passed:           pct >= q.PassingScore,
			TimeSpentSeconds: &spent,
			ResultPayload:    datatypes.JSON(payloadJSON),
			CompletedAt:      now,
		}
		if err := a.deps.Results.Create(dbc, result); err != nil {
			return err
		}
		out = domainagg.SubmitAttemptResult{Attempt: attempt, Result: result}
		return nil
	})
	if err != nil {
		return domainagg.SubmitAttemptResult{}, err
	}
	return out, nil
}

func (a *quizAttemptAggregate) AbandonAttempt(ctx context.Context, attemptID uint) (*quiz.QuizProgress, error) {
	const op = "Quiz.AbandonAttempt"
	if attemptID == 0 {
		return nil, validation(op, "missing attempt_id")
	}

	var out *quiz.QuizProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		attempt, err := a.deps.Attempts.LockByID(dbc, attemptID)
		if err != nil {
			return err
		}
		if attempt.Status.Terminal() {
			return invalidState(op, "attempt already "+string(attempt.Status))
		}
		now := time.Now().UTC()
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "quiz_progress", attempt.ID,
			[]string{string(quiz.AttemptInProgress)},
			map[string]any{"status": string(quiz.AttemptAbandoned), "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return invalidState(op, "attempt is no longer in progress")
		}
		attempt.Status = quiz.AttemptAbandoned
		attempt.UpdatedAt = now
		out = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockOpenAttempt locks the attempt, rejects terminal ones and loads its quiz.
func (a *quizAttemptAggregate) lockOpenAttempt(dbc dbctx.Context, op string, attemptID uint) (*quiz.QuizProgress, *quiz.Quiz, quiz.Payload, error) {
	var payload quiz.Payload
	attempt, err := a.deps.Attempts.LockByID(dbc, attemptID)
	if err != nil {
		return nil, nil, payload, err
	}
	if attempt.Status.Terminal() {
		return nil, nil, payload, invalidState(op, "attempt already "+string(attempt.Status))
	}
	q, err := a.deps.Quizzes.GetByID(dbc, attempt.QuizID)
	if err != nil {
		return nil, nil, payload, err
	}
	if q == nil {
		return nil, nil, payload, notFound(op, "quiz", attempt.QuizID)
	}
	payload, err = q.DecodePayload()
	if err != nil {
		return nil, nil, payload, InvariantError(err.Error())
	}
	return attempt, q, payload, nil
}

func decodeAnswers(raw datatypes.JSON) (map[string]quiz.AnswerSubmitted, error) {
	answers := map[string]quiz.AnswerSubmitted{}
	if len(raw) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, InvariantError("stored answers are not a JSON object: " + err.Error())
	}
	if answers == nil {
		answers = map[string]quiz.AnswerSubmitted{}
	}
	return answers, nil
}

package aggregates

import (
	"math"
	"sort"
	"strings"

	"github.com/yungbote/forumcore/internal/domain/quiz"
)

// attemptScore is the outcome of grading an answers map against a quiz payload.
type attemptScore struct {
	TotalQuestions int
	CorrectAnswers int
	TotalPoints    int
	EarnedPoints   int
	Percentage     float64
	// Graded carries every submitted answer with Correct filled in.
	Graded map[string]quiz.AnswerSubmitted
}

// scoreAttempt grades answers question by question. Unanswered questions count
// toward the totals and earn nothing.
func scoreAttempt(payload quiz.Payload, answers map[string]quiz.AnswerSubmitted) attemptScore {
	out := attemptScore{
		TotalQuestions: len(payload.Questions),
		Graded:         make(map[string]quiz.AnswerSubmitted, len(answers)),
	}
	for _, q := range payload.Questions {
		out.TotalPoints += q.Points
		ans, ok := answers[q.ID]
		if !ok {
			continue
		}
		correct := gradeQuestion(q, ans)
		ans.Correct = &correct
		out.Graded[q.ID] = ans
		if correct {
			out.CorrectAnswers++
			out.EarnedPoints += q.Points
		}
	}
	out.Percentage = percentage(out.EarnedPoints, out.TotalPoints)
	return out
}

func gradeQuestion(q quiz.Question, ans quiz.AnswerSubmitted) bool {
	switch q.Type {
	case quiz.QuestionMultipleChoice:
		return sameIDSet(correctIDs(q), ans.AnswerIDs)
	case quiz.QuestionTextInput:
		return matchesCorrectText(q, ans.Text)
	default:
		// single_choice, image and formula take one answer id, or text when no id is sent.
		if len(ans.AnswerIDs) == 0 {
			return matchesCorrectText(q, ans.Text)
		}
		if len(ans.AnswerIDs) != 1 {
			return false
		}
		for _, a := range q.Answers {
			if a.ID == ans.AnswerIDs[0] {
				return a.IsCorrect
			}
		}
		return false
	}
}

func correctIDs(q quiz.Question) []string {
	var ids []string
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func sameIDSet(want, got []string) bool {
	w := dedupeSorted(want)
	g := dedupeSorted(got)
	if len(w) == 0 || len(w) != len(g) {
		return false
	}
	for i := range w {
		if w[i] != g[i] {
			return false
		}
	}
	return true
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func matchesCorrectText(q quiz.Question, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, a := range q.Answers {
		if a.IsCorrect && strings.EqualFold(strings.TrimSpace(a.Text), text) {
			return true
		}
	}
	return false
}

// percentage is earned/total*100 rounded to two places; an empty quiz scores 0.
func percentage(earned, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(earned)/float64(total)*100*100) / 100
}

// questionPosition returns the index of questionID in the payload, or -1.
func questionPosition(payload quiz.Payload, questionID string) int {
	for i, q := range payload.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

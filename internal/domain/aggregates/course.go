package aggregates

import (
	"context"

	"github.com/yungbote/forumcore/internal/domain/quiz"
)

var CourseProgressAggregateContract = Contract{
	Name:             "Quiz.CourseProgressAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns course progress; the completed set only grows and completion never reverts.",
}

type CourseProgressAggregate interface {
	Aggregate

	// StartCourse returns the existing progress row of the pair when there is one.
	StartCourse(ctx context.Context, userID, courseID uint) (*quiz.CourseProgress, error)

	// CompleteItem adds itemID to the completed set. Sequential courses require
	// every earlier required item first.
	CompleteItem(ctx context.Context, progressID, itemID uint) (*quiz.CourseProgress, error)
}

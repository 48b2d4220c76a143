package aggregates

import (
	"context"

	"github.com/yungbote/forumcore/internal/domain/mentor"
)

var MentorshipAggregateContract = Contract{
	Name:             "Mentor.MentorshipAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the mentor-mentee state machine; rejected and completed pairs stay closed.",
}

// MentorshipAggregate owns mentor-mentee transitions:
// pending -> active|rejected, active <-> paused, active|paused -> completed.
type MentorshipAggregate interface {
	Aggregate

	RequestMentorship(ctx context.Context, in RequestMentorshipInput) (*mentor.MentorMentee, error)
	Accept(ctx context.Context, id uint) (*mentor.MentorMentee, error)
	Reject(ctx context.Context, id uint) (*mentor.MentorMentee, error)
	Pause(ctx context.Context, id uint) (*mentor.MentorMentee, error)
	Resume(ctx context.Context, id uint) (*mentor.MentorMentee, error)
	Complete(ctx context.Context, id uint) (*mentor.MentorMentee, error)
	UpdateSubscriptions(ctx context.Context, in UpdateSubscriptionsInput) (*mentor.MentorMentee, error)
}

type RequestMentorshipInput struct {
	MentorID    uint
	MenteeID    uint
	InitiatedBy mentor.Initiator
	Notes       string
}

// UpdateSubscriptionsInput changes only the non-nil fields.
type UpdateSubscriptionsInput struct {
	ID                  uint
	SubscribeToQuizzes  *bool
	SubscribeToCourses  *bool
	SubscribeToSubjects *bool
	MentorNotes         *string
	MenteeNotes         *string
}

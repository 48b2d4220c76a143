package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/mentor"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type MentorshipAggregateDeps struct {
	Base BaseDeps

	Users   repos.UserRepo
	Mentors repos.MentorMenteeRepo
}

type mentorshipAggregate struct {
	deps MentorshipAggregateDeps
}

func NewMentorshipAggregate(deps MentorshipAggregateDeps) domainagg.MentorshipAggregate {
	deps.Base = deps.Base.withDefaults()
	return &mentorshipAggregate{deps: deps}
}

func (a *mentorshipAggregate) Contract() domainagg.Contract {
	return domainagg.MentorshipAggregateContract
}

func (a *mentorshipAggregate) RequestMentorship(ctx context.Context, in domainagg.RequestMentorshipInput) (*mentor.MentorMentee, error) {
	const op = "Mentorship.RequestMentorship"
	if in.MentorID == 0 || in.MenteeID == 0 {
		return nil, validation(op, "missing mentor_id or mentee_id")
	}
	if in.MentorID == in.MenteeID {
		return nil, validation(op, "mentor and mentee must differ")
	}
	if !in.InitiatedBy.Valid() {
		return nil, validation(op, "initiated_by must be mentor or mentee")
	}

	var out *mentor.MentorMentee
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		for _, id := range []uint{in.MentorID, in.MenteeID} {
			u, err := a.deps.Users.GetByID(dbc, id)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound(op, "user", id)
			}
		}
		existing, err := a.deps.Mentors.GetByPair(dbc, in.MentorID, in.MenteeID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status.Terminal() {
				return invalidState(op, "relationship is closed ("+string(existing.Status)+")")
			}
			return domainagg.NewError(domainagg.CodeUniquenessViolation, op, "relationship already exists", nil)
		}
		row := &mentor.MentorMentee{
			MentorID:    in.MentorID,
			MenteeID:    in.MenteeID,
			Status:      mentor.StatusPending,
			InitiatedBy: in.InitiatedBy,
		}
		notes := strings.TrimSpace(in.Notes)
		if in.InitiatedBy == mentor.InitiatedByMentor {
			row.MentorNotes = notes
		} else {
			row.MenteeNotes = notes
		}
		if err := a.deps.Mentors.Create(dbc, row); err != nil {
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

func (a *mentorshipAggregate) Accept(ctx context.Context, id uint) (*mentor.MentorMentee, error) {
	return a.transition(ctx, "Mentorship.Accept", id, mentor.StatusActive, mentor.StatusPending)
}

func (a *mentorshipAggregate) Reject(ctx context.Context, id uint) (*mentor.MentorMentee, error) {
	return a.transition(ctx, "Mentorship.Reject", id, mentor.StatusRejected, mentor.StatusPending)
}

func (a *mentorshipAggregate) Pause(ctx context.Context, id uint) (*mentor.MentorMentee, error) {
	return a.transition(ctx, "Mentorship.Pause", id, mentor.StatusPaused, mentor.StatusActive)
}

func (a *mentorshipAggregate) Resume(ctx context.Context, id uint) (*mentor.MentorMentee, error) {
	return a.transition(ctx, "Mentorship.Resume", id, mentor.StatusActive, mentor.StatusPaused)
}

func (a *mentorshipAggregate) Complete(ctx context.Context, id uint) (*mentor.MentorMentee, error) {
	return a.transition(ctx, "Mentorship.Complete", id, mentor.StatusCompleted, mentor.StatusActive, mentor.StatusPaused)
}

// transition moves the row to `to` when its status is one of `from`. accepted_at
// is stamped on the first activation only and completed_at on completion.
func (a *mentorshipAggregate) transition(ctx context.Context, op string, id uint, to mentor.Status, from ...mentor.Status) (*mentor.MentorMentee, error) {
	if id == 0 {
		return nil, validation(op, "missing id")
	}

	var out *mentor.MentorMentee
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Mentors.LockByID(dbc, id)
		if err != nil {
			return err
		}
		if !statusIn(row.Status, from) {
			return invalidState(op, "cannot move from "+string(row.Status)+" to "+string(to))
		}
		now := time.Now().UTC()
		updates := map[string]any{"status": string(to), "updated_at": now}
		if to == mentor.StatusActive && row.AcceptedAt == nil {
			updates["accepted_at"] = now
			row.AcceptedAt = &now
		}
		if to == mentor.StatusCompleted {
			updates["completed_at"] = now
			row.CompletedAt = &now
		}
		allowed := make([]string, 0, len(from))
		for _, s := range from {
			allowed = append(allowed, string(s))
		}
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "mentor_mentee", row.ID, allowed, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "relationship status changed concurrently"); err != nil {
			return err
		}
		row.Status = to
		row.UpdatedAt = now
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *mentorshipAggregate) UpdateSubscriptions(ctx context.Context, in domainagg.UpdateSubscriptionsInput) (*mentor.MentorMentee, error) {
	const op = "Mentorship.UpdateSubscriptions"
	if in.ID == 0 {
		return nil, validation(op, "missing id")
	}

	var out *mentor.MentorMentee
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Mentors.LockByID(dbc, in.ID)
		if err != nil {
			return err
		}
		if row.Status.Terminal() {
			return invalidState(op, "relationship is closed ("+string(row.Status)+")")
		}
		updates := map[string]interface{}{}
		if in.SubscribeToQuizzes != nil {
			row.SubscribeToQuizzes = *in.SubscribeToQuizzes
			updates["subscribe_to_quizzes"] = row.SubscribeToQuizzes
		}
		if in.SubscribeToCourses != nil {
			row.SubscribeToCourses = *in.SubscribeToCourses
			updates["subscribe_to_courses"] = row.SubscribeToCourses
		}
		if in.SubscribeToSubjects != nil {
			row.SubscribeToSubjects = *in.SubscribeToSubjects
			updates["subscribe_to_subjects"] = row.SubscribeToSubjects
		}
		if in.MentorNotes != nil {
			row.MentorNotes = strings.TrimSpace(*in.MentorNotes)
			updates["mentor_notes"] = row.MentorNotes
		}
		if in.MenteeNotes != nil {
			row.MenteeNotes = strings.TrimSpace(*in.MenteeNotes)
			updates["mentee_notes"] = row.MenteeNotes
		}
		if len(updates) > 0 {
			if err := a.deps.Mentors.UpdateFields(dbc, row.ID, updates); err != nil {
				return err
			}
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func statusIn(s mentor.Status, set []mentor.Status) bool {
	for _, c := range set {
		if s == c {
			return true
		}
	}
	return false
}

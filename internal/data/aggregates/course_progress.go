package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/quiz"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type CourseProgressAggregateDeps struct {
	Base BaseDeps

	Users    repos.UserRepo
	Courses  repos.CourseRepo
	Progress repos.CourseProgressRepo
}

type courseProgressAggregate struct {
	deps CourseProgressAggregateDeps
}

func NewCourseProgressAggregate(deps CourseProgressAggregateDeps) domainagg.CourseProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &courseProgressAggregate{deps: deps}
}

func (a *courseProgressAggregate) Contract() domainagg.Contract {
	return domainagg.CourseProgressAggregateContract
}

func (a *courseProgressAggregate) StartCourse(ctx context.Context, userID, courseID uint) (*quiz.CourseProgress, error) {
	const op = "Course.StartCourse"
	if userID == 0 || courseID == 0 {
		return nil, validation(op, "missing user_id or course_id")
	}

	var out *quiz.CourseProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.LockByID(dbc, userID); err != nil {
			return err
		}
		course, err := a.deps.Courses.GetByID(dbc, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return notFound(op, "course", courseID)
		}
		if course.Status == quiz.StatusArchived {
			return invalidState(op, "course is archived")
		}
		existing, err := a.deps.Progress.GetByUserCourse(dbc, userID, courseID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}
		items, err := a.deps.Courses.ListItems(dbc, courseID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		row := &quiz.CourseProgress{
			UserID:           userID,
			CourseID:         courseID,
			StartedAt:        now,
			LastActivityAt:   now,
			CompletedItemIDs: datatypes.JSON("[]"),
		}
		if len(items) > 0 {
			first := items[0].ID
			row.CurrentItemID = &first
		}
		if err := a.deps.Progress.Create(dbc, row); err != nil {
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

func (a *courseProgressAggregate) CompleteItem(ctx context.Context, progressID, itemID uint) (*quiz.CourseProgress, error) {
	const op = "Course.CompleteItem"
	if progressID == 0 || itemID == 0 {
		return nil, validation(op, "missing progress_id or item_id")
	}

	var out *quiz.CourseProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		progress, err := a.deps.Progress.LockByID(dbc, progressID)
		if err != nil {
			return err
		}
		course, err := a.deps.Courses.GetByID(dbc, progress.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return notFound(op, "course", progress.CourseID)
		}
		items, err := a.deps.Courses.ListItems(dbc, course.ID)
		if err != nil {
			return err
		}
		pos := -1
		for i, it := range items {
			if it.ID == itemID {
				pos = i
				break
			}
		}
		if pos < 0 {
			return validation(op, fmt.Sprintf("item %d does not belong to course %d", itemID, course.ID))
		}

		completed, err := decodeItemIDs(progress.CompletedItemIDs)
		if err != nil {
			return err
		}
		if completed[itemID] {
			out = progress
			return nil
		}
		if course.IsSequential {
			for _, it := range items[:pos] {
				if it.IsRequired && !completed[it.ID] {
					return domainagg.NewError(domainagg.CodePreconditionFailed, op,
						fmt.Sprintf("item %d must be completed first", it.ID), nil)
				}
			}
		}
		completed[itemID] = true

		state := courseState(items, completed)
		// completion never reverts, even if items are added to the course later
		isCompleted := progress.IsCompleted || state.allRequiredDone

		now := time.Now().UTC()
		raw, err := encodeItemIDs(completed)
		if err != nil {
			return err
		}
		if err := a.deps.Progress.UpdateFields(dbc, progress.ID, map[string]interface{}{
			"completed_item_ids":    raw,
			"completion_percentage": state.percentage,
			"is_completed":          isCompleted,
			"current_item_id":       nullableID(state.currentItemID),
			"last_activity_at":      now,
		}); err != nil {
			return err
		}
		progress.CompletedItemIDs = raw
		progress.CompletionPercentage = state.percentage
		progress.IsCompleted = isCompleted
		progress.CurrentItemID = state.currentItemID
		progress.LastActivityAt = now
		out = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type courseSnapshot struct {
	percentage      float64
	allRequiredDone bool
	currentItemID   *uint
}

// courseState derives percentage, completion and the next pending item from the
// completed set. A course without required items completes when every item is done.
func courseState(items []*quiz.QuizCourseItem, completed map[uint]bool) courseSnapshot {
	var (
		done        int
		required    int
		requiredMet int
		snap        courseSnapshot
	)
	for _, it := range items {
		if completed[it.ID] {
			done++
		} else if snap.currentItemID == nil {
			id := it.ID
			snap.currentItemID = &id
		}
		if it.IsRequired {
			required++
			if completed[it.ID] {
				requiredMet++
			}
		}
	}
	snap.percentage = percentage(done, len(items))
	if required > 0 {
		snap.allRequiredDone = requiredMet == required
	} else {
		snap.allRequiredDone = len(items) > 0 && done == len(items)
	}
	return snap
}

func decodeItemIDs(raw datatypes.JSON) (map[uint]bool, error) {
	out := map[uint]bool{}
	if len(raw) == 0 {
		return out, nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, InvariantError("stored completed_item_ids are not a JSON array: " + err.Error())
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func encodeItemIDs(set map[uint]bool) (datatypes.JSON, error) {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

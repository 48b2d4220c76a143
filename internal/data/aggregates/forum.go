package aggregates

import (
	"context"
	"strings"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/forum"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type ForumAggregateDeps struct {
	Base BaseDeps

	Users      repos.UserRepo
	Categories repos.CategoryRepo
	Topics     repos.TopicRepo
	Messages   repos.MessageRepo
}

type forumAggregate struct {
	deps ForumAggregateDeps
}

func NewForumAggregate(deps ForumAggregateDeps) domainagg.ForumAggregate {
	deps.Base = deps.Base.withDefaults()
	return &forumAggregate{deps: deps}
}

func (a *forumAggregate) Contract() domainagg.Contract {
	return domainagg.ForumAggregateContract
}

func (a *forumAggregate) CreateTopic(ctx context.Context, in domainagg.CreateTopicInput) (*forum.Topic, error) {
	const op = "Forum.CreateTopic"
	title := strings.TrimSpace(in.Title)
	if in.UserID == 0 {
		return nil, validation(op, "missing user_id")
	}
	if title == "" {
		return nil, validation(op, "missing title")
	}
	taskType := in.TaskType
	if taskType == "" {
		taskType = forum.TaskTypeGeneral
	}

	var out *forum.Topic
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.GetByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound(op, "user", in.UserID)
		}
		if in.CategoryID != nil {
			c, err := a.deps.Categories.GetByID(dbc, *in.CategoryID)
			if err != nil {
				return err
			}
			if c == nil {
				return notFound(op, "category", *in.CategoryID)
			}
		}
		if in.SubcategoryID != nil {
			sc, err := a.deps.Categories.GetSubcategoryByID(dbc, *in.SubcategoryID)
			if err != nil {
				return err
			}
			if sc == nil {
				return notFound(op, "subcategory", *in.SubcategoryID)
			}
			if in.CategoryID != nil && sc.CategoryID != *in.CategoryID {
				return validation(op, "subcategory belongs to another category")
			}
		}
		created, err := a.deps.Topics.Create(dbc, []*forum.Topic{{
			UserID:        in.UserID,
			CategoryID:    in.CategoryID,
			SubcategoryID: in.SubcategoryID,
			Title:         title,
			Description:   strings.TrimSpace(in.Description),
			TaskType:      taskType,
			IsActive:      true,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *forumAggregate) CreateMessage(ctx context.Context, in domainagg.CreateMessageInput) (*forum.Message, error) {
	const op = "Forum.CreateMessage"
	if in.TopicID == 0 {
		return nil, validation(op, "missing topic_id")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, validation(op, "missing content")
	}
	status := in.Status
	if status == "" {
		status = forum.MessageStatusPublished
	}
	if !status.Valid() {
		return nil, validation(op, "unknown message status "+string(status))
	}
	taskType := in.TaskType
	if taskType == "" {
		taskType = forum.TaskTypeGeneral
	}

	var out *forum.Message
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		topic, err := a.deps.Topics.LockByID(dbc, in.TopicID)
		if err != nil {
			return err
		}
		if topic == nil {
			return notFound(op, "topic", in.TopicID)
		}
		if in.UserID != nil {
			u, err := a.deps.Users.GetByID(dbc, *in.UserID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound(op, "user", *in.UserID)
			}
		}
		if in.ParentID != nil {
			if err := a.requireSameTopicParent(dbc, op, topic.ID, *in.ParentID); err != nil {
				return err
			}
		}
		created, err := a.deps.Messages.Create(dbc, []*forum.Message{{
			TopicID:    topic.ID,
			UserID:     in.UserID,
			ParentID:   in.ParentID,
			AuthorName: strings.TrimSpace(in.AuthorName),
			Content:    in.Content,
			Status:     status,
			TaskType:   taskType,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *forumAggregate) ReparentMessage(ctx context.Context, messageID uint, parentID *uint) (*forum.Message, error) {
	const op = "Forum.ReparentMessage"
	if messageID == 0 {
		return nil, validation(op, "missing message_id")
	}
	if parentID != nil && *parentID == messageID {
		return nil, domainagg.NewError(domainagg.CodeSelfParent, op, "message cannot reply to itself", nil)
	}

	var out *forum.Message
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		msg, err := a.deps.Messages.LockByID(dbc, messageID)
		if err != nil {
			return err
		}
		if msg == nil {
			return notFound(op, "message", messageID)
		}
		// the topic lock serializes concurrent re-parenting inside one reply tree
		if _, err := a.deps.Topics.LockByID(dbc, msg.TopicID); err != nil {
			return err
		}
		if parentID != nil {
			if err := a.requireSameTopicParent(dbc, op, msg.TopicID, *parentID); err != nil {
				return err
			}
			parents, err := a.deps.Messages.ParentIDs(dbc, msg.TopicID)
			if err != nil {
				return err
			}
			if replyChainReaches(parents, *parentID, messageID) {
				return domainagg.NewError(domainagg.CodeCycle, op, "new parent is a reply of the message", nil)
			}
		}
		var parent interface{}
		if parentID != nil {
			parent = *parentID
		}
		if err := a.deps.Messages.UpdateFields(dbc, messageID, map[string]interface{}{"parent_id": parent}); err != nil {
			return err
		}
		msg.ParentID = parentID
		out = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *forumAggregate) requireSameTopicParent(dbc dbctx.Context, op string, topicID, parentID uint) error {
	parent, err := a.deps.Messages.GetByID(dbc, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return notFound(op, "parent message", parentID)
	}
	if parent.TopicID != topicID {
		return InvariantError("parent message belongs to another topic")
	}
	return nil
}

// replyChainReaches walks parent links up from start and reports whether target
// is on the chain. The walk is bounded by the number of messages in the topic.
func replyChainReaches(parents map[uint]*uint, start, target uint) bool {
	cur := start
	for steps := 0; steps <= len(parents); steps++ {
		if cur == target {
			return true
		}
		next := parents[cur]
		if next == nil {
			return false
		}
		cur = *next
	}
	return true
}

func (a *forumAggregate) DeleteMessage(ctx context.Context, messageID uint) (domainagg.DeleteResult, error) {
	const op = "Forum.DeleteMessage"
	var out domainagg.DeleteResult
	if messageID == 0 {
		return out, validation(op, "missing message_id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		msg, err := a.deps.Messages.LockByID(dbc, messageID)
		if err != nil {
			return err
		}
		if msg == nil {
			return notFound(op, "message", messageID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "messages", messageID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

func (a *forumAggregate) DeleteTopic(ctx context.Context, topicID uint) (domainagg.DeleteResult, error) {
	const op = "Forum.DeleteTopic"
	var out domainagg.DeleteResult
	if topicID == 0 {
		return out, validation(op, "missing topic_id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		topic, err := a.deps.Topics.LockByID(dbc, topicID)
		if err != nil {
			return err
		}
		if topic == nil {
			return notFound(op, "topic", topicID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "topics", topicID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

func (a *forumAggregate) DeleteCategory(ctx context.Context, categoryID uint) (domainagg.DeleteResult, error) {
	const op = "Forum.DeleteCategory"
	var out domainagg.DeleteResult
	if categoryID == 0 {
		return out, validation(op, "missing category_id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		c, err := a.deps.Categories.GetByID(dbc, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "category", categoryID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "categories", categoryID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

func (a *forumAggregate) DeleteSubcategory(ctx context.Context, subcategoryID uint) (domainagg.DeleteResult, error) {
	const op = "Forum.DeleteSubcategory"
	var out domainagg.DeleteResult
	if subcategoryID == 0 {
		return out, validation(op, "missing subcategory_id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sc, err := a.deps.Categories.GetSubcategoryByID(dbc, subcategoryID)
		if err != nil {
			return err
		}
		if sc == nil {
			return notFound(op, "subcategory", subcategoryID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "subcategories", subcategoryID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

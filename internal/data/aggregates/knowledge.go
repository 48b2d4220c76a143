package aggregates

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type KnowledgeAggregateDeps struct {
	Base BaseDeps

	Topics     repos.TopicRepo
	Messages   repos.MessageRepo
	Records    repos.KnowledgeRecordRepo
	Examples   repos.MessageExampleRepo
	Embeddings repos.MessageEmbeddingRepo
}

type knowledgeAggregate struct {
	deps KnowledgeAggregateDeps
}

func NewKnowledgeAggregate(deps KnowledgeAggregateDeps) domainagg.KnowledgeAggregate {
	deps.Base = deps.Base.withDefaults()
	return &knowledgeAggregate{deps: deps}
}

func (a *knowledgeAggregate) Contract() domainagg.Contract {
	return domainagg.KnowledgeAggregateContract
}

func (a *knowledgeAggregate) AttachEmbedding(ctx context.Context, in domainagg.AttachEmbeddingInput) (*knowledge.MessageEmbedding, error) {
	const op = "Knowledge.AttachEmbedding"
	if !in.Owner.Valid() {
		return nil, invalidOwner(op, in.Owner)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, validation(op, "missing content")
	}
	if err := checkVector(op, in.Vector); err != nil {
		return nil, err
	}
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, validation(op, "metadata is not JSON encodable: "+err.Error())
	}

	row := &knowledge.MessageEmbedding{
		Content:       in.Content,
		Embedding:     in.Vector,
		ExtraMetadata: meta,
	}
	if err := in.Owner.Apply(row); err != nil {
		return nil, invalidOwner(op, in.Owner)
	}
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.requireOwner(dbc, op, in.Owner); err != nil {
			return err
		}
		return a.deps.Embeddings.Create(dbc, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (a *knowledgeAggregate) UpdateEmbedding(ctx context.Context, in domainagg.UpdateEmbeddingInput) (*knowledge.MessageEmbedding, error) {
	const op = "Knowledge.UpdateEmbedding"
	if in.ID == 0 {
		return nil, validation(op, "missing embedding id")
	}
	if in.Owner != nil && !in.Owner.Valid() {
		return nil, invalidOwner(op, *in.Owner)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, validation(op, "content cannot be emptied")
	}
	if in.Vector != nil {
		if err := checkVector(op, *in.Vector); err != nil {
			return nil, err
		}
	}

	var out *knowledge.MessageEmbedding
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Embeddings.GetByID(dbc, in.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return notFound(op, "message embedding", in.ID)
		}
		// a stored row with a broken owner is rejected, never repaired
		if _, err := knowledge.OwnerOf(row); err != nil {
			return domainagg.NewError(domainagg.CodeInvalidOwner, op, "stored embedding does not reference exactly one owner", err)
		}

		updates := map[string]interface{}{}
		if in.Owner != nil {
			if err := a.requireOwner(dbc, op, *in.Owner); err != nil {
				return err
			}
			if err := in.Owner.Apply(row); err != nil {
				return err
			}
			updates["message_id"] = nullableID(row.MessageID)
			updates["topic_id"] = nullableID(row.TopicID)
			updates["user_message_example_id"] = nullableID(row.UserMessageExampleID)
		}
		if in.Content != nil {
			row.Content = *in.Content
			updates["content"] = row.Content
		}
		if in.Vector != nil {
			row.Embedding = *in.Vector
			updates["embedding"] = row.Embedding
		}
		if in.Metadata != nil {
			meta, err := encodeMetadata(in.Metadata)
			if err != nil {
				return ValidationError("metadata is not JSON encodable: " + err.Error())
			}
			row.ExtraMetadata = meta
			updates["extra_metadata"] = meta
		}
		if _, err := knowledge.OwnerOf(row); err != nil {
			return err
		}
		if err := a.deps.Embeddings.UpdateFields(dbc, row.ID, updates); err != nil {
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

func (a *knowledgeAggregate) DeleteOwnerEmbeddings(ctx context.Context, owner knowledge.OwnerRef) (int64, error) {
	const op = "Knowledge.DeleteOwnerEmbeddings"
	if !owner.Valid() {
		return 0, invalidOwner(op, owner)
	}
	var n int64
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		var err error
		n, err = a.deps.Embeddings.DeleteByOwner(dbc, owner)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (a *knowledgeAggregate) DeleteMessageExample(ctx context.Context, exampleID uint) (domainagg.DeleteResult, error) {
	const op = "Knowledge.DeleteMessageExample"
	var out domainagg.DeleteResult
	if exampleID == 0 {
		return out, validation(op, "missing example id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		ex, err := a.deps.Examples.GetByID(dbc, exampleID)
		if err != nil {
			return err
		}
		if ex == nil {
			return notFound(op, "user message example", exampleID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "user_message_examples", exampleID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

func (a *knowledgeAggregate) DeleteKnowledgeRecord(ctx context.Context, recordID uuid.UUID) (domainagg.DeleteResult, error) {
	const op = "Knowledge.DeleteKnowledgeRecord"
	var out domainagg.DeleteResult
	if recordID == uuid.Nil {
		return out, validation(op, "missing record id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rec, err := a.deps.Records.GetByID(dbc, recordID)
		if err != nil {
			return err
		}
		if rec == nil {
			return notFound(op, "knowledge record", recordID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "user_knowledge", recordID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

// requireOwner checks that the owner row exists.
func (a *knowledgeAggregate) requireOwner(dbc dbctx.Context, op string, owner knowledge.OwnerRef) error {
	var found bool
	switch owner.Kind() {
	case knowledge.OwnerMessage:
		m, err := a.deps.Messages.GetByID(dbc, owner.ID())
		if err != nil {
			return err
		}
		found = m != nil
	case knowledge.OwnerTopic:
		t, err := a.deps.Topics.GetByID(dbc, owner.ID())
		if err != nil {
			return err
		}
		found = t != nil
	case knowledge.OwnerExample:
		e, err := a.deps.Examples.GetByID(dbc, owner.ID())
		if err != nil {
			return err
		}
		found = e != nil
	default:
		return invalidOwner(op, owner)
	}
	if !found {
		return notFound(op, string(owner.Kind()), owner.ID())
	}
	return nil
}

func invalidOwner(op string, owner knowledge.OwnerRef) error {
	return domainagg.NewError(domainagg.CodeInvalidOwner, op, "embedding owner is "+owner.String(), knowledge.ErrInvalidOwner)
}

func checkVector(op string, v pgvector.Vector) error {
	n := len(v.Slice())
	if n == 0 {
		return validation(op, "missing vector")
	}
	if n != knowledge.Dimensions {
		return validation(op, "vector has wrong dimensions")
	}
	return nil
}

func encodeMetadata(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func nullableID(id *uint) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

package knowledge

import (
	"errors"
	"fmt"
)

// OwnerKind names the table a MessageEmbedding hangs off.
type OwnerKind string

const (
	OwnerMessage OwnerKind = "message"
	OwnerTopic   OwnerKind = "topic"
	OwnerExample OwnerKind = "user_message_example"
)

// ErrInvalidOwner reports an embedding with zero or several owner references.
var ErrInvalidOwner = errors.New("message embedding must reference exactly one owner")

// OwnerColumns lists the nullable owner columns of message_embeddings.
var OwnerColumns = []string{"message_id", "topic_id", "user_message_example_id"}

// OwnerRef identifies exactly one embedding owner. The zero value is invalid;
// build one with MessageOwner, TopicOwner or ExampleOwner.
type OwnerRef struct {
	kind OwnerKind
	id   uint
}

func MessageOwner(id uint) OwnerRef { return OwnerRef{kind: OwnerMessage, id: id} }
func TopicOwner(id uint) OwnerRef   { return OwnerRef{kind: OwnerTopic, id: id} }
func ExampleOwner(id uint) OwnerRef { return OwnerRef{kind: OwnerExample, id: id} }

func (o OwnerRef) Kind() OwnerKind { return o.kind }
func (o OwnerRef) ID() uint        { return o.id }

func (o OwnerRef) Valid() bool {
	return o.id != 0 && o.kind.Column() != ""
}

func (o OwnerRef) String() string {
	if !o.Valid() {
		return "owner(invalid)"
	}
	return fmt.Sprintf("%s(%d)", o.kind, o.id)
}

// Column is the message_embeddings column holding this kind, or "" for unknown kinds.
func (k OwnerKind) Column() string {
	switch k {
	case OwnerMessage:
		return "message_id"
	case OwnerTopic:
		return "topic_id"
	case OwnerExample:
		return "user_message_example_id"
	}
	return ""
}

// Table is the table the owner id refers to.
func (k OwnerKind) Table() string {
	switch k {
	case OwnerMessage:
		return "messages"
	case OwnerTopic:
		return "topics"
	case OwnerExample:
		return "user_message_examples"
	}
	return ""
}

func ParseOwnerKind(raw string) (OwnerKind, error) {
	k := OwnerKind(raw)
	if k.Column() == "" {
		return "", fmt.Errorf("unknown owner kind %q", raw)
	}
	return k, nil
}

// Apply writes the owner into e, clearing the other two columns.
func (o OwnerRef) Apply(e *MessageEmbedding) error {
	if e == nil {
		return errors.New("nil embedding")
	}
	if !o.Valid() {
		return ErrInvalidOwner
	}
	id := o.id
	e.MessageID, e.TopicID, e.UserMessageExampleID = nil, nil, nil
	switch o.kind {
	case OwnerMessage:
		e.MessageID = &id
	case OwnerTopic:
		e.TopicID = &id
	case OwnerExample:
		e.UserMessageExampleID = &id
	}
	return nil
}

// OwnerOf reads the storage layout back into an OwnerRef. Rows with zero or
// several owner columns set are rejected, never repaired.
func OwnerOf(e *MessageEmbedding) (OwnerRef, error) {
	if e == nil {
		return OwnerRef{}, ErrInvalidOwner
	}
	var (
		out OwnerRef
		n   int
	)
	if e.MessageID != nil {
		out, n = MessageOwner(*e.MessageID), n+1
	}
	if e.TopicID != nil {
		out, n = TopicOwner(*e.TopicID), n+1
	}
	if e.UserMessageExampleID != nil {
		out, n = ExampleOwner(*e.UserMessageExampleID), n+1
	}
	if n != 1 || !out.Valid() {
		return OwnerRef{}, ErrInvalidOwner
	}
	return out, nil
}

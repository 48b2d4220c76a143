// Package schema is the single source of truth for relationships between tables.
//
// Rules drives both the Postgres foreign keys created by internal/data/db and
// the application-side cascade executed by internal/data/cascade, so the two
// cannot drift apart.
package schema

import (
	"fmt"
	"sort"
)

// Policy is what happens to a dependent row when its parent row is deleted.
type Policy string

const (
	Cascade  Policy = "cascade"
	SetNull  Policy = "set_null"
	Restrict Policy = "restrict"
)

// OnDelete renders the policy as a SQL referential action.
func (p Policy) OnDelete() string {
	switch p {
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	default:
		return "RESTRICT"
	}
}

// KeyType is the Go type of a table's primary key.
type KeyType string

const (
	KeyUint KeyType = "uint"
	KeyUUID KeyType = "uuid"
	// KeyNone marks join tables without a surrogate key.
	KeyNone KeyType = "none"
)

// Rule links Child.Column to Parent.id.
type Rule struct {
	Parent string `json:"parent" yaml:"parent"`
	Child  string `json:"child" yaml:"child"`
	Column string `json:"column" yaml:"column"`
	Policy Policy `json:"policy" yaml:"policy"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s.%s -> %s (%s)", r.Child, r.Column, r.Parent, r.Policy)
}

// ConstraintName is the foreign key name used in Postgres.
func (r Rule) ConstraintName() string {
	return fmt.Sprintf("fk_%s_%s", r.Child, r.Column)
}

// ForeignKeySQL renders the ALTER TABLE statement for this rule.
func (r Rule) ForeignKeySQL() string {
	return fmt.Sprintf(
		`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %q ("id") ON DELETE %s`,
		r.Child, r.ConstraintName(), r.Column, r.Parent, r.Policy.OnDelete(),
	)
}

// Tables maps every table to its primary key type.
var Tables = map[string]KeyType{
	"users":            KeyUint,
	"user_status":      KeyUint,
	"user_feedback":    KeyUint,
	"user_profile":     KeyUint,
	"subjects":         KeyUint,
	"user_schedule":    KeyUint,
	"subject_schedule": KeyUint,

	"categories":    KeyUint,
	"subcategories": KeyUint,
	"topics":        KeyUint,
	"messages":      KeyUint,
	"tasks":         KeyUint,

	"user_knowledge":        KeyUUID,
	"user_message_examples": KeyUint,
	"message_embeddings":    KeyUint,
	"embeddings":            KeyUint,

	"documents":         KeyUUID,
	"document_children": KeyNone,
	"document_versions": KeyUint,

	"quizzes":              KeyUint,
	"quiz_progress":        KeyUint,
	"user_quiz_results":    KeyUint,
	"quiz_courses":         KeyUint,
	"quiz_course_items":    KeyUint,
	"quiz_course_progress": KeyUint,

	"mentor_mentee": KeyUint,
}

// Rules is the cascade policy table.
//
// Owned compositions cascade, plain references are nulled, and a course item
// pins its quiz. Self references (message replies, the document tree) cascade
// recursively. tasks carries loose ids and has no rules.
var Rules = []Rule{
	{Parent: "users", Child: "user_status", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "user_feedback", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "user_profile", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "subjects", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "subject_schedule", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "topics", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "messages", Column: "user_id", Policy: SetNull},
	{Parent: "users", Child: "user_knowledge", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "documents", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "document_versions", Column: "created_by", Policy: SetNull},
	{Parent: "users", Child: "quizzes", Column: "creator_id", Policy: SetNull},
	{Parent: "users", Child: "quiz_courses", Column: "creator_id", Policy: SetNull},
	{Parent: "users", Child: "quiz_progress", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "user_quiz_results", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "quiz_course_progress", Column: "user_id", Policy: Cascade},
	{Parent: "users", Child: "mentor_mentee", Column: "mentor_id", Policy: Cascade},
	{Parent: "users", Child: "mentor_mentee", Column: "mentee_id", Policy: Cascade},

	{Parent: "subjects", Child: "user_schedule", Column: "subject_id", Policy: Cascade},
	{Parent: "subjects", Child: "subject_schedule", Column: "subject_id", Policy: Cascade},

	{Parent: "categories", Child: "subcategories", Column: "category_id", Policy: Cascade},
	{Parent: "categories", Child: "topics", Column: "category_id", Policy: SetNull},
	{Parent: "subcategories", Child: "topics", Column: "subcategory_id", Policy: SetNull},

	{Parent: "topics", Child: "messages", Column: "topic_id", Policy: Cascade},
	{Parent: "topics", Child: "message_embeddings", Column: "topic_id", Policy: Cascade},
	{Parent: "messages", Child: "messages", Column: "parent_id", Policy: Cascade},
	{Parent: "messages", Child: "message_embeddings", Column: "message_id", Policy: Cascade},

	{Parent: "user_knowledge", Child: "user_message_examples", Column: "profile_id", Policy: Cascade},
	{Parent: "user_message_examples", Child: "message_embeddings", Column: "user_message_example_id", Policy: Cascade},

	{Parent: "documents", Child: "documents", Column: "parent_id", Policy: Cascade},
	{Parent: "documents", Child: "document_children", Column: "parent_id", Policy: Cascade},
	{Parent: "documents", Child: "document_children", Column: "child_id", Policy: Cascade},
	{Parent: "documents", Child: "document_versions", Column: "document_id", Policy: Cascade},

	{Parent: "quizzes", Child: "quiz_progress", Column: "quiz_id", Policy: Cascade},
	{Parent: "quizzes", Child: "user_quiz_results", Column: "quiz_id", Policy: Cascade},
	{Parent: "quizzes", Child: "quiz_course_items", Column: "quiz_id", Policy: Restrict},
	{Parent: "quiz_progress", Child: "user_quiz_results", Column: "attempt_id", Policy: SetNull},
	{Parent: "quiz_courses", Child: "quiz_course_items", Column: "course_id", Policy: Cascade},
	{Parent: "quiz_courses", Child: "quiz_course_progress", Column: "course_id", Policy: Cascade},
	{Parent: "quiz_course_items", Child: "quiz_course_progress", Column: "current_item_id", Policy: SetNull},
}

// DependentsOf returns the rules whose parent is table, in table order.
func DependentsOf(table string) []Rule {
	var out []Rule
	for _, r := range Rules {
		if r.Parent == table {
			out = append(out, r)
		}
	}
	return out
}

// ReferencesFrom returns the rules whose child is table.
func ReferencesFrom(table string) []Rule {
	var out []Rule
	for _, r := range Rules {
		if r.Child == table {
			out = append(out, r)
		}
	}
	return out
}

// IsLeaf reports whether nothing depends on table.
func IsLeaf(table string) bool {
	return len(DependentsOf(table)) == 0
}

// TableNames returns every known table sorted by name.
func TableNames() []string {
	out := make([]string, 0, len(Tables))
	for t := range Tables {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every rule references known tables and that set-null
// rules never target a table without a surrogate key.
func Validate() error {
	seen := map[string]bool{}
	for _, r := range Rules {
		if _, ok := Tables[r.Parent]; !ok {
			return fmt.Errorf("rule %s: unknown parent table", r)
		}
		kt, ok := Tables[r.Child]
		if !ok {
			return fmt.Errorf("rule %s: unknown child table", r)
		}
		if Tables[r.Parent] == KeyNone {
			return fmt.Errorf("rule %s: parent has no primary key", r)
		}
		switch r.Policy {
		case Cascade, SetNull, Restrict:
		default:
			return fmt.Errorf("rule %s: unknown policy", r)
		}
		if kt == KeyNone && !IsLeaf(r.Child) {
			return fmt.Errorf("rule %s: keyless table cannot own rows", r)
		}
		key := r.Child + "." + r.Column
		if seen[key] {
			return fmt.Errorf("rule %s: column already governed by another rule", r)
		}
		seen[key] = true
	}
	return nil
}

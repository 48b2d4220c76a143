package aggregates

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/documents"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type DocumentGraphAggregateDeps struct {
	Base BaseDeps

	Users     repos.UserRepo
	Documents repos.DocumentRepo
	Edges     repos.DocumentEdgeRepo
	Versions  repos.DocumentVersionRepo
}

type documentGraphAggregate struct {
	deps DocumentGraphAggregateDeps
}

func NewDocumentGraphAggregate(deps DocumentGraphAggregateDeps) domainagg.DocumentGraphAggregate {
	deps.Base = deps.Base.withDefaults()
	return &documentGraphAggregate{deps: deps}
}

func (a *documentGraphAggregate) Contract() domainagg.Contract {
	return domainagg.DocumentGraphAggregateContract
}

func (a *documentGraphAggregate) CreateDocument(ctx context.Context, in domainagg.CreateDocumentInput) (*documents.Document, error) {
	const op = "Documents.CreateDocument"
	title := strings.TrimSpace(in.Title)
	if in.UserID == 0 {
		return nil, validation(op, "missing user_id")
	}
	if title == "" {
		return nil, validation(op, "missing title")
	}
	if in.FileSize < 0 {
		return nil, validation(op, "file_size must be >= 0")
	}

	var out *documents.Document
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.GetByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound(op, "user", in.UserID)
		}
		if in.ParentID != nil {
			if _, err := a.lockExisting(dbc, op, *in.ParentID); err != nil {
				return err
			}
		}
		created, err := a.deps.Documents.Create(dbc, []*documents.Document{{
			UserID:           in.UserID,
			ParentID:         in.ParentID,
			Title:            title,
			Description:      in.Description,
			FilePath:         in.FilePath,
			FileName:         in.FileName,
			FileSize:         in.FileSize,
			MimeType:         in.MimeType,
			Version:          1,
			IsActive:         true,
			IsPublic:         in.IsPublic,
			ProcessingStatus: documents.ProcessingPending,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return a.deps.Versions.Append(dbc, &documents.DocumentVersion{
			DocumentID:     out.ID,
			VersionNumber:  out.Version,
			Title:          out.Title,
			Description:    out.Description,
			FilePath:       out.FilePath,
			ChangesSummary: "created",
			CreatedBy:      &in.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *documentGraphAggregate) UpdateDocument(ctx context.Context, in domainagg.UpdateDocumentInput) (*documents.Document, error) {
	const op = "Documents.UpdateDocument"
	if in.DocumentID == uuid.Nil {
		return nil, validation(op, "missing document id")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validation(op, "title cannot be emptied")
	}
	if in.FileSize != nil && *in.FileSize < 0 {
		return nil, validation(op, "file_size must be >= 0")
	}

	var out *documents.Document
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		doc, err := a.lockExisting(dbc, op, in.DocumentID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		updates := map[string]any{"version": doc.Version + 1, "updated_at": now}
		if in.Title != nil {
			doc.Title = strings.TrimSpace(*in.Title)
			updates["title"] = doc.Title
		}
		if in.Description != nil {
			doc.Description = *in.Description
			updates["description"] = doc.Description
		}
		if in.FilePath != nil {
			doc.FilePath = *in.FilePath
			updates["file_path"] = doc.FilePath
		}
		if in.FileName != nil {
			doc.FileName = *in.FileName
			updates["file_name"] = doc.FileName
		}
		if in.FileSize != nil {
			doc.FileSize = *in.FileSize
			updates["file_size"] = doc.FileSize
		}
		if in.MimeType != nil {
			doc.MimeType = *in.MimeType
			updates["mime_type"] = doc.MimeType
		}
		if in.IsPublic != nil {
			doc.IsPublic = *in.IsPublic
			updates["is_public"] = doc.IsPublic
		}
		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "documents", doc.ID, doc.Version, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "document version changed during update"); err != nil {
			return err
		}
		doc.Version++
		doc.UpdatedAt = now

		summary := strings.TrimSpace(in.ChangesSummary)
		if summary == "" {
			summary = "updated"
		}
		if err := a.deps.Versions.Append(dbc, &documents.DocumentVersion{
			DocumentID:     doc.ID,
			VersionNumber:  doc.Version,
			Title:          doc.Title,
			Description:    doc.Description,
			FilePath:       doc.FilePath,
			ChangesSummary: summary,
			CreatedBy:      in.EditorID,
		}); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *documentGraphAggregate) SetTreeParent(ctx context.Context, docID uuid.UUID, parentID *uuid.UUID) (*documents.Document, error) {
	const op = "Documents.SetTreeParent"
	if docID == uuid.Nil {
		return nil, validation(op, "missing document id")
	}
	if parentID != nil && *parentID == docID {
		return nil, domainagg.NewError(domainagg.CodeSelfParent, op, "document cannot be its own parent", nil)
	}

	var out *documents.Document
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if parentID == nil {
			doc, err := a.lockExisting(dbc, op, docID)
			if err != nil {
				return err
			}
			if doc.ParentID != nil {
				if err := a.deps.Documents.UpdateFields(dbc, docID, map[string]interface{}{"parent_id": nil}); err != nil {
					return err
				}
				doc.ParentID = nil
			}
			out = doc
			return nil
		}

		locked, err := a.lockPair(dbc, op, *parentID, docID)
		if err != nil {
			return err
		}
		doc := locked[docID]
		if doc.ParentID != nil && *doc.ParentID == *parentID {
			out = doc
			return nil
		}
		if err := a.rejectCycle(dbc, op, *parentID, docID); err != nil {
			return err
		}
		if err := a.deps.Documents.UpdateFields(dbc, docID, map[string]interface{}{"parent_id": *parentID}); err != nil {
			return err
		}
		p := *parentID
		doc.ParentID = &p
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *documentGraphAggregate) AddGraphEdge(ctx context.Context, parentID, childID uuid.UUID) error {
	const op = "Documents.AddGraphEdge"
	if parentID == uuid.Nil || childID == uuid.Nil {
		return validation(op, "missing parent or child id")
	}
	if parentID == childID {
		return domainagg.NewError(domainagg.CodeCycle, op, "self edge "+parentID.String(), nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.lockPair(dbc, op, parentID, childID); err != nil {
			return err
		}
		exists, err := a.deps.Edges.Exists(dbc, parentID, childID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := a.rejectCycle(dbc, op, parentID, childID); err != nil {
			return err
		}
		return dbc.DB(a.deps.Base.DB).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&documents.DocumentChild{ParentID: parentID, ChildID: childID}).Error
	})
}

func (a *documentGraphAggregate) RemoveGraphEdge(ctx context.Context, parentID, childID uuid.UUID) error {
	const op = "Documents.RemoveGraphEdge"
	if parentID == uuid.Nil || childID == uuid.Nil {
		return validation(op, "missing parent or child id")
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.lockPair(dbc, op, parentID, childID); err != nil {
			return err
		}
		return dbc.DB(a.deps.Base.DB).
			Where("parent_id = ? AND child_id = ?", parentID, childID).
			Delete(&documents.DocumentChild{}).Error
	})
}

func (a *documentGraphAggregate) DeleteDocument(ctx context.Context, docID uuid.UUID) (domainagg.DeleteResult, error) {
	const op = "Documents.DeleteDocument"
	var out domainagg.DeleteResult
	if docID == uuid.Nil {
		return out, validation(op, "missing document id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.lockExisting(dbc, op, docID); err != nil {
			return err
		}
		var err error
		out, err = cascadeDelete(dbc, a.deps.Base, "documents", docID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}

func (a *documentGraphAggregate) GetAllChildren(ctx context.Context, docID uuid.UUID) ([]documents.Relative, error) {
	const op = "Documents.GetAllChildren"
	dbc := dbctx.Context{Ctx: ctx}
	if err := a.requireDocument(dbc, op, docID); err != nil {
		return nil, err
	}
	tree, err := a.deps.Documents.ListTreeChildren(dbc, []uuid.UUID{docID})
	if err != nil {
		return nil, MapError(op, err)
	}
	graphIDs, err := a.deps.Edges.ChildIDs(dbc, []uuid.UUID{docID})
	if err != nil {
		return nil, MapError(op, err)
	}
	return a.mergeRelatives(dbc, op, tree, graphIDs)
}

func (a *documentGraphAggregate) GetAllParents(ctx context.Context, docID uuid.UUID) ([]documents.Relative, error) {
	const op = "Documents.GetAllParents"
	dbc := dbctx.Context{Ctx: ctx}
	doc, err := a.deps.Documents.GetByID(dbc, docID)
	if err != nil {
		return nil, MapError(op, err)
	}
	if doc == nil {
		return nil, notFound(op, "document", docID)
	}
	var tree []*documents.Document
	if doc.ParentID != nil {
		p, err := a.deps.Documents.GetByID(dbc, *doc.ParentID)
		if err != nil {
			return nil, MapError(op, err)
		}
		if p != nil {
			tree = append(tree, p)
		}
	}
	graphIDs, err := a.deps.Edges.ParentIDs(dbc, []uuid.UUID{docID})
	if err != nil {
		return nil, MapError(op, err)
	}
	return a.mergeRelatives(dbc, op, tree, graphIDs)
}

func (a *documentGraphAggregate) HasChildren(ctx context.Context, docID uuid.UUID) (bool, error) {
	const op = "Documents.HasChildren"
	dbc := dbctx.Context{Ctx: ctx}
	if err := a.requireDocument(dbc, op, docID); err != nil {
		return false, err
	}
	tree, err := a.deps.Documents.TreeChildIDs(dbc, []uuid.UUID{docID})
	if err != nil {
		return false, MapError(op, err)
	}
	if len(tree) > 0 {
		return true, nil
	}
	graph, err := a.deps.Edges.ChildIDs(dbc, []uuid.UUID{docID})
	if err != nil {
		return false, MapError(op, err)
	}
	return len(graph) > 0, nil
}

// mergeRelatives lists tree relatives first, then graph relatives not already
// present, each group ordered by id.
func (a *documentGraphAggregate) mergeRelatives(dbc dbctx.Context, op string, tree []*documents.Document, graphIDs []uuid.UUID) ([]documents.Relative, error) {
	sortDocuments(tree)
	out := make([]documents.Relative, 0, len(tree)+len(graphIDs))
	seen := make(map[uuid.UUID]bool, len(tree)+len(graphIDs))
	for _, d := range tree {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, documents.Relative{Document: d, Kind: documents.RelationTree})
	}
	var rest []uuid.UUID
	for _, id := range graphIDs {
		if !seen[id] {
			seen[id] = true
			rest = append(rest, id)
		}
	}
	graph, err := a.deps.Documents.GetByIDs(dbc, rest)
	if err != nil {
		return nil, MapError(op, err)
	}
	sortDocuments(graph)
	for _, d := range graph {
		out = append(out, documents.Relative{Document: d, Kind: documents.RelationGraph})
	}
	return out, nil
}

// rejectCycle fails when adding the edge parent -> child would let child reach
// itself, i.e. when parent is already reachable from child.
func (a *documentGraphAggregate) rejectCycle(dbc dbctx.Context, op string, parentID, childID uuid.UUID) error {
	reaches, err := a.reachable(dbc, childID, parentID)
	if err != nil {
		return err
	}
	if reaches {
		return domainagg.NewError(domainagg.CodeCycle, op,
			fmt.Sprintf("%s is a descendant of %s", parentID, childID), nil)
	}
	return nil
}

// reachable walks depth-first from start over tree and graph children and
// reports whether target is reached. Every visited document is locked so a
// concurrent writer closing a cycle through the same rows has to wait.
func (a *documentGraphAggregate) reachable(dbc dbctx.Context, start, target uuid.UUID) (bool, error) {
	limit, err := a.deps.Documents.Count(dbc)
	if err != nil {
		return false, err
	}
	visited := map[uuid.UUID]bool{start: true}
	stack := []uuid.UUID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true, nil
		}
		if int64(len(visited)) > limit {
			return false, InvariantError("document walk exceeded the document count")
		}
		if _, err := a.deps.Documents.LockByIDs(dbc, []uuid.UUID{cur}); err != nil {
			return false, err
		}
		next, err := a.childIDs(dbc, cur)
		if err != nil {
			return false, err
		}
		// push in reverse so the lowest id is explored first
		for i := len(next) - 1; i >= 0; i-- {
			id := next[i]
			if visited[id] {
				continue
			}
			visited[id] = true
			stack = append(stack, id)
		}
	}
	return false, nil
}

func (a *documentGraphAggregate) childIDs(dbc dbctx.Context, id uuid.UUID) ([]uuid.UUID, error) {
	tree, err := a.deps.Documents.TreeChildIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	graph, err := a.deps.Edges.ChildIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return append(tree, graph...), nil
}

func (a *documentGraphAggregate) lockExisting(dbc dbctx.Context, op string, id uuid.UUID) (*documents.Document, error) {
	rows, err := a.deps.Documents.LockByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(op, "document", id)
	}
	return rows[0], nil
}

// lockPair locks both documents in id order and fails when either is missing.
func (a *documentGraphAggregate) lockPair(dbc dbctx.Context, op string, first, second uuid.UUID) (map[uuid.UUID]*documents.Document, error) {
	rows, err := a.deps.Documents.LockByIDs(dbc, []uuid.UUID{first, second})
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*documents.Document, len(rows))
	for _, d := range rows {
		byID[d.ID] = d
	}
	for _, id := range []uuid.UUID{first, second} {
		if byID[id] == nil {
			return nil, notFound(op, "document", id)
		}
	}
	return byID, nil
}

func (a *documentGraphAggregate) requireDocument(dbc dbctx.Context, op string, id uuid.UUID) error {
	doc, err := a.deps.Documents.GetByID(dbc, id)
	if err != nil {
		return MapError(op, err)
	}
	if doc == nil {
		return notFound(op, "document", id)
	}
	return nil
}

func sortDocuments(docs []*documents.Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID.String() < docs[j].ID.String() })
}

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Create validates draft and stores it as a new incomplete record. An
// empty priority takes the first vocabulary entry. Draft sub-tasks may only
// be labels; use LinkSubTask for links. If draft.ParentTask is set, the new
// record is linked under that parent.
func (e *Engine) Create(ctx context.Context, draft types.Todo) (types.Todo, error) {
	rec := draft.Clone()
	if strings.TrimSpace(rec.Title) == "" {
		return types.Todo{}, fmt.Errorf("%w: title must not be empty", types.ErrInvalidData)
	}

	if rec.Priority == "" {
		rec.Priority = e.rules.Priorities()[0]
	}
	var err error
	if rec.Priority, err = e.normalize(types.FieldPriority, rec.Priority); err != nil {
		return types.Todo{}, err
	}
	for _, field := range []*string{&rec.ProposedStartDate, &rec.ProposedEndDate} {
		if *field == "" {
			continue
		}
		if *field, err = e.normalize(types.FieldProposedStartDate, *field); err != nil {
			return types.Todo{}, err
		}
	}
	for _, st := range rec.SubTasks {
		if st.Link {
			return types.Todo{}, fmt.Errorf("%w: new todos cannot carry linked sub-tasks", types.ErrInvalidData)
		}
	}

	parentID := rec.ParentTask
	now := e.stamp()
	rec.ID = ""
	rec.ParentTask = ""
	rec.Status = types.StatusIncomplete
	rec.ActualStartDate = ""
	rec.ActualEndDate = ""
	rec.Created = now
	rec.LastUpdated = now
	if rec.SubTasks == nil {
		rec.SubTasks = []types.SubTaskRef{}
	}

	if _, err := e.store.Save(ctx, &rec); err != nil {
		return types.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	e.logger.Info("todo created", "id", rec.ID, "title", rec.Title)

	if parentID != "" {
		parent, err := e.store.Get(ctx, parentID)
		if err != nil {
			return rec, fmt.Errorf("reading parent %s: %w", parentID, err)
		}
		if _, err := e.LinkSubTask(ctx, &parent, rec.ID); err != nil {
			return rec, fmt.Errorf("linking to parent %s: %w", parentID, err)
		}
		if rec, err = e.store.Get(ctx, rec.ID); err != nil {
			return rec, fmt.Errorf("reading todo: %w", err)
		}
		e.notify(types.NoticeSuccess, MsgCreated)
		return rec, nil
	}

	if _, err := e.refresh(ctx); err != nil {
		return rec, err
	}
	e.notify(types.NoticeSuccess, MsgCreated)
	return rec, nil
}

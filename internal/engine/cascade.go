package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// DeleteReport describes what a cascade touched. On failure it holds the
// work done before the failing step; nothing is rolled back.
type DeleteReport struct {
	// Deleted lists removed record ids in deletion order.
	Deleted []string
	// Unlinked lists parents whose sub-task entry was turned into a label.
	Unlinked []string
	// Dangling lists referenced ids that no longer resolved.
	Dangling []string
	// Records is the list re-fetched after a successful cascade.
	Records []types.Todo
}

// DeleteConfirmation is the question asked before deleting rec.
func DeleteConfirmation(rec types.Todo) string {
	return fmt.Sprintf("Are you sure you want to permanently delete \"%s\" and all linked subtasks?", rec.Title)
}

// ConfirmDelete asks confirm for approval and then deletes rec.
// Returns ErrDeclined if the user says no.
func (e *Engine) ConfirmDelete(ctx context.Context, rec types.Todo, confirm types.Confirmer) (*DeleteReport, error) {
	ok, err := confirm.Confirm(ctx, DeleteConfirmation(rec))
	if err != nil {
		return nil, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return nil, types.ErrDeclined
	}
	return e.Delete(ctx, rec)
}

// Delete removes rec together with every linked sub-task, transitively.
//
// If rec has a parent, the parent's entry for rec is rewritten to a plain
// label carrying rec's title and the parent is saved. Linked children are
// then deleted depth first, and rec last. A child that no longer exists is
// logged and skipped. The first storage failure stops the cascade and is
// returned wrapping ErrDeleteFailed.
func (e *Engine) Delete(ctx context.Context, rec types.Todo) (*DeleteReport, error) {
	c := &cascade{engine: e, deleting: make(map[string]bool), report: &DeleteReport{}}
	if err := c.remove(ctx, rec, true); err != nil {
		e.logger.Error("cascade delete stopped", "id", rec.ID, "deleted", len(c.report.Deleted), "err", err)
		return c.report, err
	}
	e.notify(types.NoticeSuccess, MsgDeleting)

	records, err := e.refresh(ctx)
	if err != nil {
		return c.report, err
	}
	c.report.Records = records
	return c.report, nil
}

type cascade struct {
	engine   *Engine
	deleting map[string]bool
	report   *DeleteReport
}

func (c *cascade) remove(ctx context.Context, rec types.Todo, root bool) error {
	c.deleting[rec.ID] = true
	store := c.engine.store

	if rec.ParentTask != "" && !c.deleting[rec.ParentTask] {
		if err := c.engine.detachFromParent(ctx, rec, c.report); err != nil {
			return fmt.Errorf("%w: updating parent %s: %w", types.ErrDeleteFailed, rec.ParentTask, err)
		}
	}

	for _, id := range rec.LinkedIDs() {
		if c.deleting[id] {
			continue
		}
		child, err := store.Get(ctx, id)
		if errors.Is(err, types.ErrNotFound) {
			c.dangling(rec.ID, id)
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: reading sub-task %s: %w", types.ErrDeleteFailed, id, err)
		}
		if err := c.remove(ctx, child, false); err != nil {
			return err
		}
	}

	if err := store.Delete(ctx, rec.ID); err != nil {
		if !root && errors.Is(err, types.ErrNotFound) {
			c.dangling(rec.ParentTask, rec.ID)
			return nil
		}
		return fmt.Errorf("%w: %s: %w", types.ErrDeleteFailed, rec.ID, err)
	}
	c.report.Deleted = append(c.report.Deleted, rec.ID)
	c.engine.logger.Debug("todo deleted", "id", rec.ID)
	return nil
}

func (c *cascade) dangling(from, id string) {
	c.engine.logger.Warn("dangling sub-task link", "from", from, "id", id)
	c.report.Dangling = append(c.report.Dangling, id)
}

// detachFromParent rewrites the parent's linked entries for child into
// labels carrying the child's title. The parent is re-read and written back
// whole; nothing is saved if no entry matched.
func (e *Engine) detachFromParent(ctx context.Context, child types.Todo, report *DeleteReport) error {
	parent, err := e.store.Get(ctx, child.ParentTask)
	if errors.Is(err, types.ErrNotFound) {
		e.logger.Warn("parent of todo not found", "id", child.ID, "parent", child.ParentTask)
		report.Dangling = append(report.Dangling, child.ParentTask)
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	for i, st := range parent.SubTasks {
		if st.Link && st.ID == child.ID {
			parent.SubTasks[i] = types.LabelRef(child.Title)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	parent.LastUpdated = e.stamp()
	if _, err := e.store.Save(ctx, &parent); err != nil {
		return err
	}
	report.Unlinked = append(report.Unlinked, parent.ID)
	return nil
}

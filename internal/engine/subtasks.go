package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// UnlinkOptions modifies Unlink.
type UnlinkOptions struct {
	// KeepRecord detaches the former child instead of deleting it.
	KeepRecord bool
}

// AddSubTask appends a plain label entry to parent.
func (e *Engine) AddSubTask(ctx context.Context, parent *types.Todo, name string) (Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Outcome{}, fmt.Errorf("%w: sub-task name must not be empty", types.ErrInvalidData)
	}
	fresh, err := e.store.Get(ctx, parent.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading todo %s: %w", parent.ID, err)
	}
	fresh.SubTasks = append(fresh.SubTasks, types.LabelRef(name))
	fresh.LastUpdated = e.stamp()
	if _, err := e.store.Save(ctx, &fresh); err != nil {
		return Outcome{}, fmt.Errorf("saving todo %s: %w", fresh.ID, err)
	}
	*parent = fresh
	return e.finish(ctx)
}

// LinkSubTask appends a linked entry for childID to parent and points the
// child back at it. A child that already has another parent is moved: its
// entry there becomes a label. Linking a record under itself or one of its
// descendants fails with ErrLinkCycle. Linking an existing child again is a
// no-op.
func (e *Engine) LinkSubTask(ctx context.Context, parent *types.Todo, childID string) (Outcome, error) {
	if childID == "" {
		return Outcome{}, types.ErrInvalidID
	}
	if childID == parent.ID {
		return Outcome{}, fmt.Errorf("%w: %s under itself", types.ErrLinkCycle, childID)
	}
	fresh, err := e.store.Get(ctx, parent.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading todo %s: %w", parent.ID, err)
	}
	child, err := e.store.Get(ctx, childID)
	if errors.Is(err, types.ErrNotFound) {
		return Outcome{}, fmt.Errorf("%w: %s: %w", types.ErrDanglingLink, childID, err)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("reading todo %s: %w", childID, err)
	}
	for _, st := range fresh.SubTasks {
		if st.Link && st.ID == childID {
			return Outcome{}, nil
		}
	}
	if err := e.checkAncestry(ctx, fresh, childID); err != nil {
		return Outcome{}, err
	}

	if child.ParentTask != "" && child.ParentTask != fresh.ID {
		if err := e.detachFromParent(ctx, child, &DeleteReport{}); err != nil {
			return Outcome{}, fmt.Errorf("detaching %s from %s: %w", child.ID, child.ParentTask, err)
		}
	}

	now := e.stamp()
	fresh.SubTasks = append(fresh.SubTasks, types.LinkRef(childID))
	fresh.LastUpdated = now
	if _, err := e.store.Save(ctx, &fresh); err != nil {
		return Outcome{}, fmt.Errorf("saving todo %s: %w", fresh.ID, err)
	}
	child.ParentTask = fresh.ID
	child.LastUpdated = now
	if _, err := e.store.Save(ctx, &child); err != nil {
		return Outcome{}, fmt.Errorf("saving todo %s: %w", child.ID, err)
	}
	*parent = fresh
	e.logger.Debug("sub-task linked", "parent", fresh.ID, "child", childID)
	return e.finish(ctx)
}

// checkAncestry walks the parent chain of rec and fails if it reaches id.
func (e *Engine) checkAncestry(ctx context.Context, rec types.Todo, id string) error {
	seen := map[string]bool{rec.ID: true}
	for next := rec.ParentTask; next != ""; {
		if next == id {
			return fmt.Errorf("%w: %s is an ancestor of %s", types.ErrLinkCycle, id, rec.ID)
		}
		if seen[next] {
			return nil
		}
		seen[next] = true
		anc, err := e.store.Get(ctx, next)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading todo %s: %w", next, err)
		}
		next = anc.ParentTask
	}
	return nil
}

// Unlink turns the linked entry at index in parent into a plain label
// carrying the child's title. The parent is never deleted. By default the
// former child is then deleted with its own linked sub-tasks; with
// KeepRecord it is only detached from the parent. A dangling entry keeps
// its cached name.
func (e *Engine) Unlink(ctx context.Context, parent *types.Todo, index int, opts UnlinkOptions) (*DeleteReport, error) {
	fresh, err := e.store.Get(ctx, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("reading todo %s: %w", parent.ID, err)
	}
	if index < 0 || index >= len(fresh.SubTasks) {
		return nil, fmt.Errorf("%w: no sub-task at position %d", types.ErrInvalidData, index)
	}
	entry := fresh.SubTasks[index]
	if !entry.Link {
		return nil, fmt.Errorf("%w: position %d", types.ErrNotLinked, index)
	}

	report := &DeleteReport{}
	title := entry.Name
	child, err := e.store.Get(ctx, entry.ID)
	found := err == nil
	switch {
	case errors.Is(err, types.ErrNotFound):
		e.logger.Warn("dangling sub-task link", "from", fresh.ID, "id", entry.ID)
		report.Dangling = append(report.Dangling, entry.ID)
	case err != nil:
		return nil, fmt.Errorf("reading todo %s: %w", entry.ID, err)
	default:
		title = child.Title
	}

	now := e.stamp()
	fresh.SubTasks[index] = types.LabelRef(title)
	fresh.LastUpdated = now
	if _, err := e.store.Save(ctx, &fresh); err != nil {
		return report, fmt.Errorf("saving todo %s: %w", fresh.ID, err)
	}
	*parent = fresh
	report.Unlinked = append(report.Unlinked, fresh.ID)

	if found {
		if opts.KeepRecord {
			if child.ParentTask == fresh.ID {
				child.ParentTask = ""
				child.LastUpdated = now
				if _, err := e.store.Save(ctx, &child); err != nil {
					return report, fmt.Errorf("saving todo %s: %w", child.ID, err)
				}
			}
		} else {
			c := &cascade{engine: e, deleting: make(map[string]bool), report: report}
			if err := c.remove(ctx, child, true); err != nil {
				return report, err
			}
		}
	}

	out, err := e.finish(ctx)
	report.Records = out.Records
	return report, err
}

// finish re-fetches the list and announces a successful update.
func (e *Engine) finish(ctx context.Context) (Outcome, error) {
	records, err := e.refresh(ctx)
	if err != nil {
		return Outcome{Changed: true}, err
	}
	e.notify(types.NoticeSuccess, MsgDataUpdated)
	return Outcome{Changed: true, Records: records}, nil
}

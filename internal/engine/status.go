package engine

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Transition moves rec to target, which must be the successor of its
// current status. Entering in-progress stamps actualStartDate, entering
// complete stamps actualEndDate, and restarting to incomplete clears both.
// The status itself is then written through ApplyFieldChange.
//
// Returns ErrInvalidStatus for an unknown target and ErrInvalidTransition
// when target skips a stage.
func (e *Engine) Transition(ctx context.Context, rec *types.Todo, target types.Status) (Outcome, error) {
	if !target.IsValid() {
		return Outcome{}, fmt.Errorf("%w: %q", types.ErrInvalidStatus, target)
	}
	if rec.Status.Next() != target {
		return Outcome{}, fmt.Errorf("%w: %s to %s", types.ErrInvalidTransition, rec.Status, target)
	}

	next := rec.Clone()
	next.EnterStatus(target, e.stamp())

	out, err := e.ApplyFieldChange(ctx, &next, types.FieldStatus, string(target), ChangeOptions{})
	if err != nil {
		return out, err
	}
	e.logger.Info("status changed", "id", rec.ID, "from", rec.Status, "to", target)
	*rec = next
	return out, nil
}

// Advance moves rec to the next status in the cycle.
func (e *Engine) Advance(ctx context.Context, rec *types.Todo) (Outcome, error) {
	return e.Transition(ctx, rec, rec.Status.Next())
}

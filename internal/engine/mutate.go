package engine

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// ChangeOptions modifies how ApplyFieldChange treats a change.
type ChangeOptions struct {
	// ForceUpdate writes even when the value is unchanged and suppresses
	// the success notice. Used for internal follow-up writes.
	ForceUpdate bool
}

// Outcome is the result of an accepted change.
type Outcome struct {
	// Changed is false when the change was a no-op.
	Changed bool
	// Records is the list re-fetched after the write. Nil when nothing
	// was written.
	Records []types.Todo
}

// ApplyFieldChange sets one field of rec and persists it.
//
// Priorities are checked against the vocabulary and stored in its
// spelling. Proposed dates are checked and stored in canonical form. A
// rejected value leaves rec untouched, emits an error notice and returns
// ErrInvalidPriority or ErrInvalidDate. A status write must name the
// successor of the current status and find the actual dates already
// stamped for it, as Transition leaves them; anything else returns
// ErrInvalidTransition. If the value equals the current one
// and ForceUpdate is not set nothing happens. Otherwise lastUpdated is
// refreshed, the record is saved, the list is re-fetched and, unless
// forced, a success notice is emitted.
//
// rec is only updated once the save succeeds.
func (e *Engine) ApplyFieldChange(ctx context.Context, rec *types.Todo, field, value string, opts ChangeOptions) (Outcome, error) {
	if types.IsReadOnlyField(field) {
		return Outcome{}, fmt.Errorf("%w: %s", types.ErrReadOnlyField, field)
	}
	current, err := rec.Field(field)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", err, field)
	}

	value, err = e.normalize(field, value)
	if err != nil {
		return Outcome{}, err
	}
	if field == types.FieldStatus && value != current {
		if err := checkStatusWrite(rec, types.Status(value)); err != nil {
			return Outcome{}, err
		}
	}

	if current == value && !opts.ForceUpdate {
		e.logger.Debug("field unchanged", "id", rec.ID, "field", field)
		return Outcome{}, nil
	}

	next := rec.Clone()
	if err := next.SetField(field, value); err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", err, field)
	}
	next.LastUpdated = e.stamp()

	if _, err := e.store.Save(ctx, &next); err != nil {
		e.logger.Error("saving todo", "id", rec.ID, "field", field, "err", err)
		return Outcome{}, fmt.Errorf("saving todo %s: %w", rec.ID, err)
	}
	*rec = next
	e.logger.Debug("field updated", "id", rec.ID, "field", field, "value", value)

	records, err := e.refresh(ctx)
	if err != nil {
		return Outcome{Changed: true}, err
	}
	if !opts.ForceUpdate {
		e.notify(types.NoticeSuccess, MsgDataUpdated)
	}
	return Outcome{Changed: true, Records: records}, nil
}

// normalize validates value for field and returns the form to store.
func (e *Engine) normalize(field, value string) (string, error) {
	switch field {
	case types.FieldPriority:
		p, ok := e.rules.CanonicalPriority(value)
		if !ok {
			e.notify(types.NoticeError, MsgInvalidPriority)
			return "", fmt.Errorf("%w: %q", types.ErrInvalidPriority, value)
		}
		return p, nil
	case types.FieldProposedStartDate, types.FieldProposedEndDate:
		d, err := NormalizeDate(value)
		if err != nil {
			e.notify(types.NoticeError, MsgInvalidDate)
			return "", fmt.Errorf("%w: %q", types.ErrInvalidDate, value)
		}
		return d, nil
	case types.FieldStatus:
		s, err := types.ParseStatus(value)
		if err != nil {
			return "", fmt.Errorf("%w: %q", err, value)
		}
		return string(s), nil
	}
	return value, nil
}

// checkStatusWrite rejects a status write that skips a stage or whose
// actual dates do not reflect the target yet.
func checkStatusWrite(rec *types.Todo, target types.Status) error {
	if rec.Status.Next() != target {
		return fmt.Errorf("%w: %s to %s", types.ErrInvalidTransition, rec.Status, target)
	}
	if !rec.DatesMatchStatus(target) {
		return fmt.Errorf("%w: actual dates of %s not stamped for %s", types.ErrInvalidTransition, rec.ID, target)
	}
	return nil
}

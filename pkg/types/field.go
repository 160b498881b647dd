package types

// Field names, matching the persisted JSON keys.
const (
	FieldID                = "id"
	FieldCreated           = "created"
	FieldLastUpdated       = "lastUpdated"
	FieldProposedStartDate = "proposedStartDate"
	FieldProposedEndDate   = "proposedEndDate"
	FieldActualStartDate   = "actualStartDate"
	FieldActualEndDate     = "actualEndDate"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldType              = "type"
	FieldPriority          = "priority"
	FieldStatus            = "status"
	FieldParentTask        = "parentTask"
)

// readOnlyFields cannot be changed through SetField. Identity and audit
// stamps belong to storage, actual dates to status transitions, and the
// parent reference to link management.
var readOnlyFields = map[string]bool{
	FieldID:              true,
	FieldCreated:         true,
	FieldLastUpdated:     true,
	FieldActualStartDate: true,
	FieldActualEndDate:   true,
	FieldParentTask:      true,
}

// IsReadOnlyField reports whether name is excluded from generic edits.
func IsReadOnlyField(name string) bool {
	return readOnlyFields[name]
}

// Field returns the string value of a scalar field by its JSON key.
// Returns ErrUnknownField for names that are not scalar fields.
func (t *Todo) Field(name string) (string, error) {
	switch name {
	case FieldID:
		return t.ID, nil
	case FieldCreated:
		return t.Created, nil
	case FieldLastUpdated:
		return t.LastUpdated, nil
	case FieldProposedStartDate:
		return t.ProposedStartDate, nil
	case FieldProposedEndDate:
		return t.ProposedEndDate, nil
	case FieldActualStartDate:
		return t.ActualStartDate, nil
	case FieldActualEndDate:
		return t.ActualEndDate, nil
	case FieldTitle:
		return t.Title, nil
	case FieldDescription:
		return t.Description, nil
	case FieldType:
		return t.Type, nil
	case FieldPriority:
		return t.Priority, nil
	case FieldStatus:
		return string(t.Status), nil
	case FieldParentTask:
		return t.ParentTask, nil
	}
	return "", ErrUnknownField
}

// SetField assigns value to an editable field. No format validation is done
// here beyond the status vocabulary.
// Returns ErrReadOnlyField or ErrUnknownField for fields that cannot be set.
func (t *Todo) SetField(name, value string) error {
	if IsReadOnlyField(name) {
		return ErrReadOnlyField
	}
	switch name {
	case FieldProposedStartDate:
		t.ProposedStartDate = value
	case FieldProposedEndDate:
		t.ProposedEndDate = value
	case FieldTitle:
		t.Title = value
	case FieldDescription:
		t.Description = value
	case FieldType:
		t.Type = value
	case FieldPriority:
		t.Priority = value
	case FieldStatus:
		s := Status(value)
		if !s.IsValid() {
			return ErrInvalidStatus
		}
		t.Status = s
	default:
		return ErrUnknownField
	}
	return nil
}

package types

import "strings"

// Status is the lifecycle state of a todo.
type Status string

// Todo statuses. A record cycles incomplete → in-progress → complete →
// incomplete.
const (
	StatusIncomplete Status = "incomplete"
	StatusInProgress Status = "in-progress"
	StatusComplete   Status = "complete"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusIncomplete, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

// Next returns the successor of s in the status cycle. An unknown status
// restarts at incomplete.
func (s Status) Next() Status {
	switch s {
	case StatusIncomplete:
		return StatusInProgress
	case StatusInProgress:
		return StatusComplete
	default:
		return StatusIncomplete
	}
}

// StampField names the date field that entering s stamps with the current
// time. Entering incomplete stamps nothing; it clears both actual dates.
func (s Status) StampField() string {
	switch s {
	case StatusInProgress:
		return FieldActualStartDate
	case StatusComplete:
		return FieldActualEndDate
	}
	return ""
}

// EnterStatus applies the actual-date side effect of entering s at now.
// The field named by s.StampField is set; entering incomplete clears both
// actual dates. The status itself is left alone.
func (t *Todo) EnterStatus(s Status, now string) {
	switch s.StampField() {
	case FieldActualStartDate:
		t.ActualStartDate = now
	case FieldActualEndDate:
		t.ActualEndDate = now
	default:
		t.ActualStartDate = ""
		t.ActualEndDate = ""
	}
}

// DatesMatchStatus reports whether the actual dates of t are consistent
// with t being in status s.
func (t *Todo) DatesMatchStatus(s Status) bool {
	switch s {
	case StatusIncomplete:
		return t.ActualStartDate == "" && t.ActualEndDate == ""
	case StatusInProgress:
		return t.ActualStartDate != ""
	case StatusComplete:
		return t.ActualEndDate != ""
	}
	return false
}

// ActionLabel is the prompt shown for advancing a record out of s.
func (s Status) ActionLabel() string {
	switch s {
	case StatusIncomplete:
		return "Start!"
	case StatusInProgress:
		return "Finish!"
	case StatusComplete:
		return "Restart?"
	}
	return ""
}

// ParseStatus converts user input into a Status.
// Returns ErrInvalidStatus if the value is not a known status.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

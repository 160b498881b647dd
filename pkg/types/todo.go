package types

import (
	"strings"
	"time"
)

// TimestampLayout is the canonical timestamp form held by every date field.
// All values are UTC with millisecond precision so that lexicographic order
// matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Todo is a single task record. Field names and JSON keys follow the
// persisted shape; every date is a string in TimestampLayout or empty.
type Todo struct {
	ID                string       `json:"id" yaml:"id" toml:"id"`
	Created           string       `json:"created" yaml:"created" toml:"created"`
	LastUpdated       string       `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
	ProposedStartDate string       `json:"proposedStartDate" yaml:"proposedStartDate" toml:"proposedStartDate"`
	ProposedEndDate   string       `json:"proposedEndDate" yaml:"proposedEndDate" toml:"proposedEndDate"`
	ActualStartDate   string       `json:"actualStartDate" yaml:"actualStartDate" toml:"actualStartDate"`
	ActualEndDate     string       `json:"actualEndDate" yaml:"actualEndDate" toml:"actualEndDate"`
	Title             string       `json:"title" yaml:"title" toml:"title"`
	Description       string       `json:"description" yaml:"description" toml:"description"`
	Type              string       `json:"type" yaml:"type" toml:"type"`
	Priority          string       `json:"priority" yaml:"priority" toml:"priority"`
	Status            Status       `json:"status" yaml:"status" toml:"status"`
	SubTasks          []SubTaskRef `json:"subTasks" yaml:"subTasks" toml:"subTasks"`
	ParentTask        string       `json:"parentTask,omitempty" yaml:"parentTask,omitempty" toml:"parentTask,omitempty"`
}

// Clone returns a deep copy of the record. The sub-task slice is copied so
// the clone can be edited without touching the original.
func (t Todo) Clone() Todo {
	c := t
	if t.SubTasks != nil {
		c.SubTasks = make([]SubTaskRef, len(t.SubTasks))
		copy(c.SubTasks, t.SubTasks)
	}
	return c
}

// LinkedIDs returns the ids of every linked sub-task in list order.
func (t Todo) LinkedIDs() []string {
	var ids []string
	for _, st := range t.SubTasks {
		if st.Link && st.ID != "" {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// TypeKey is the lowercase type used for filtering and grouping.
func (t Todo) TypeKey() string {
	return strings.ToLower(t.Type)
}

// IsBehindSchedule reports whether the record has missed its planned start
// (still incomplete) or its planned end (still in progress). A proposed date
// that is empty or does not parse never makes a record behind.
func (t Todo) IsBehindSchedule(now time.Time) bool {
	switch t.Status {
	case StatusIncomplete:
		return t.ActualStartDate == "" && isPast(now, t.ProposedStartDate)
	case StatusInProgress:
		return t.ActualEndDate == "" && isPast(now, t.ProposedEndDate)
	default:
		return false
	}
}

func isPast(now time.Time, value string) bool {
	ts, ok := ParseTimestamp(value)
	if !ok {
		return false
	}
	return now.After(ts)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored date field. Canonical values and any other
// RFC 3339 value are accepted, as is a bare YYYY-MM-DD date (UTC midnight).
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.DateOnly, value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

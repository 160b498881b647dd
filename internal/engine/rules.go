package engine

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Rules validates field values. The priority vocabulary is configurable;
// date rules are fixed.
type Rules struct {
	priorities []string
	canonical  map[string]string // lowercase key -> configured spelling
}

// NewRules builds Rules for the given priority vocabulary. Blank and
// duplicate entries are dropped; an empty vocabulary falls back to
// types.DefaultPriorities.
func NewRules(priorities []string) *Rules {
	if len(priorities) == 0 {
		priorities = types.DefaultPriorities
	}
	r := &Rules{canonical: make(map[string]string, len(priorities))}
	for _, p := range priorities {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if key == "" {
			continue
		}
		if _, dup := r.canonical[key]; dup {
			continue
		}
		r.canonical[key] = p
		r.priorities = append(r.priorities, p)
	}
	if len(r.priorities) == 0 {
		return NewRules(nil)
	}
	return r
}

// Priorities returns the vocabulary in configured order.
func (r *Rules) Priorities() []string {
	out := make([]string, len(r.priorities))
	copy(out, r.priorities)
	return out
}

// IsPriorityValid reports whether value names a priority in the vocabulary.
// Matching ignores case and surrounding space; the empty string is invalid.
func (r *Rules) IsPriorityValid(value string) bool {
	_, ok := r.CanonicalPriority(value)
	return ok
}

// CanonicalPriority returns the vocabulary spelling of value.
func (r *Rules) CanonicalPriority(value string) (string, bool) {
	p, ok := r.canonical[strings.ToLower(strings.TrimSpace(value))]
	return p, ok
}

// isoDateLayout is the bare calendar date. It is the only zone-less form
// read as UTC; every other zone-less value is local time.
const isoDateLayout = "2006-01-02"

// Layouts accepted in addition to the ones spf13/cast understands. The last
// two are the forms the CLI prints dates in.
var extraDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006, 3:04 PM",
	"1/2/2006, 3:04:05 PM",
}

// parseDate parses a user-supplied date. A bare YYYY-MM-DD is UTC
// midnight; other values without a zone are read in time.Local, so a date
// printed by the CLI parses back to the same instant. Time-only layouts are
// rejected because they carry no calendar date.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(isoDateLayout, value); err == nil {
		return ts, true
	}
	ts, err := cast.ToTimeInDefaultLocationE(value, time.Local)
	if err != nil {
		ts, err = parseExtraLayouts(value, time.Local)
		if err != nil {
			return time.Time{}, false
		}
	}
	if ts.Year() == 0 {
		return time.Time{}, false
	}
	return ts, true
}

func parseExtraLayouts(value string, loc *time.Location) (time.Time, error) {
	var err error
	for _, layout := range extraDateLayouts {
		var ts time.Time
		ts, err = time.ParseInLocation(layout, value, loc)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// IsDateFormatValid reports whether value parses into a concrete calendar
// date or date-time. Empty and malformed strings are invalid.
func IsDateFormatValid(value string) bool {
	_, ok := parseDate(value)
	return ok
}

// NormalizeDate converts a valid date into types.TimestampLayout.
// Returns ErrInvalidDate if the value does not parse.
func NormalizeDate(value string) (string, error) {
	ts, ok := parseDate(value)
	if !ok {
		return "", types.ErrInvalidDate
	}
	return types.FormatTimestamp(ts), nil
}

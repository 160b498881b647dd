package engine

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// SortField is a sortable field and its display label.
type SortField struct {
	Key   string
	Label string
}

// SortFields lists the sortable fields in menu order.
var SortFields = []SortField{
	{types.FieldTitle, "Title"},
	{types.FieldPriority, "Priority"},
	{types.FieldStatus, "Status"},
	{types.FieldType, "Type"},
	{types.FieldCreated, "Creation date"},
	{types.FieldProposedStartDate, "Planned start date"},
	{types.FieldActualStartDate, "Start date"},
	{types.FieldProposedEndDate, "Planned end date"},
	{types.FieldActualEndDate, "End date"},
	{types.FieldLastUpdated, "Last updated"},
}

// DefaultSortKeys is the initial sort selection.
var DefaultSortKeys = []string{types.FieldTitle}

// IsSortKey reports whether key names a sortable field.
func IsSortKey(key string) bool {
	for _, f := range SortFields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// ComputeView filters and orders records for display.
//
// A record is kept when its title contains query (case-insensitive) and,
// if typeFilters is non-empty, its lowercase type is one of them. Kept
// records are stable-sorted by comparing sortKeys in order as plain
// strings; the first differing key decides. When descending is set the
// sorted sequence is reversed as a whole, so ties come out in reverse input
// order. With no sort keys, filtered records keep their input order.
//
// The result is a new slice of cloned records; all is not modified.
// Returns ErrInvalidSortKey if a key is not in SortFields.
func ComputeView(all []types.Todo, query string, typeFilters, sortKeys []string, descending bool) ([]types.Todo, error) {
	for _, k := range sortKeys {
		if !IsSortKey(k) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidSortKey, k)
		}
	}

	q := strings.ToLower(query)
	filters := make(map[string]bool, len(typeFilters))
	for _, f := range typeFilters {
		filters[strings.ToLower(f)] = true
	}

	view := make([]types.Todo, 0, len(all))
	for _, td := range all {
		if !strings.Contains(strings.ToLower(td.Title), q) {
			continue
		}
		if len(filters) > 0 && !filters[td.TypeKey()] {
			continue
		}
		view = append(view, td.Clone())
	}

	sort.SliceStable(view, func(i, j int) bool {
		return CompareByKeys(&view[i], &view[j], sortKeys) < 0
	})
	if descending {
		slices.Reverse(view)
	}
	return view, nil
}

// CompareByKeys compares a and b field by field. It returns -1, 0 or +1 for
// the first key whose values differ, and 0 if every key ties. Unknown keys
// compare equal.
func CompareByKeys(a, b *types.Todo, keys []string) int {
	for _, k := range keys {
		av, errA := a.Field(k)
		bv, errB := b.Field(k)
		if errA != nil || errB != nil {
			continue
		}
		if c := strings.Compare(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// TypeOptions returns the distinct lowercase types in first-seen order.
func TypeOptions(all []types.Todo) []string {
	seen := make(map[string]bool)
	var out []string
	for _, td := range all {
		k := td.TypeKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

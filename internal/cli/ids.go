package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

var errAmbiguousID = errors.New("ambiguous todo ID prefix")

// resolveID returns the id of the record named by arg. An exact id wins;
// otherwise arg must be a case-insensitive prefix of exactly one id.
func resolveID(all []types.Todo, arg string) (string, error) {
	if arg == "" {
		return "", types.ErrInvalidID
	}
	prefix := strings.ToLower(arg)
	var match string
	found := 0
	for _, td := range all {
		if td.ID == arg {
			return td.ID, nil
		}
		if strings.HasPrefix(strings.ToLower(td.ID), prefix) {
			match = td.ID
			found++
		}
	}
	switch found {
	case 0:
		return "", fmt.Errorf("todo %q: %w", arg, types.ErrNotFound)
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("%w: %s", errAmbiguousID, arg)
	}
}

// shortID is the display form of an id in tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

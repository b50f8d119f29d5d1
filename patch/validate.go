package patch

import (
	"fmt"
	"strings"
)

// PathSet is the set of JSON pointers a patch may touch. Segments "-" and "*" in an allowed
// pointer match any array index or map key respectively.
type PathSet map[string]bool

func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, path := range paths {
		set[path] = true
	}
	return set
}

// Allows reports whether path may be written. An empty set allows everything.
func (s PathSet) Allows(path string) bool {
	if len(s) == 0 || s[path] {
		return true
	}
	segments := strings.Split(path, "/")
	return s.matchWildcard(segments, 1, false)
}

func (s PathSet) matchWildcard(segments []string, index int, hasWildcard bool) bool {
	if index >= len(segments) {
		return hasWildcard && s[strings.Join(segments, "/")]
	}

	original := segments[index]
	defer func() { segments[index] = original }()

	for _, wildcard := range []string{"-", "*"} {
		segments[index] = wildcard
		if s.matchWildcard(segments, index+1, true) {
			return true
		}
	}
	segments[index] = original
	return s.matchWildcard(segments, index+1, hasWildcard)
}

func ValidatePatchOperations(ops []Operation, allowed PathSet) error {
	for i, op := range ops {
		switch op.Op {
		case OperationAdd, OperationRemove, OperationReplace:
		default:
			return fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		if !allowed.Allows(op.Path) {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}

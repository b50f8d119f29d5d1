package patch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

func ApplyRFC6902[T any](current T, ops []Operation) (T, error) {
	var zero T

	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal current state: %w", err)
	}

	ops = FixOperation(currentJSON, ops)

	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal patch operations: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return zero, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return zero, fmt.Errorf("failed to apply patch: %w", err)
	}

	var result T
	if err := json.Unmarshal(modifiedJSON, &result); err != nil {
		return zero, fmt.Errorf("type mismatch: patch would result in invalid type T: %w", err)
	}

	return result, nil
}

// FixOperation rewrites operations a model commonly gets slightly wrong against the current
// document: replace on an absent path becomes add, remove on an absent path is dropped, and an
// append ("/list/-") to a list that is still null creates the list.
// Operations are evaluated against the original document, not against each other.
func FixOperation(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := json.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	created := make(map[string]bool)
	for _, op := range ops {
		switch op.Op {
		case OperationReplace:
			if !pathExists(doc, op.Path) {
				op.Op = OperationAdd
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if pathExists(doc, op.Path) {
				fixed = append(fixed, op)
			}
		case OperationAdd:
			parent, ok := strings.CutSuffix(op.Path, "/-")
			if ok && parent != "" && !created[parent] && !isArray(lookup(doc, parent)) {
				slog.Debug("Creating list for append", "path", parent)
				created[parent] = true
				fixed = append(fixed, Operation{Op: OperationAdd, Path: parent, Value: []any{op.Value}})
				continue
			}
			fixed = append(fixed, op)
		default:
			fixed = append(fixed, op)
		}
	}

	return fixed
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func pathExists(doc any, path string) bool {
	_, ok := resolve(doc, path)
	return ok
}

func lookup(doc any, path string) any {
	v, _ := resolve(doc, path)
	return v
}

func resolve(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return nil, false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			cur = node[index]
		default:
			return nil, false
		}
	}

	return cur, true
}
